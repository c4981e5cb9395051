package version

// Version is the appsdir version. It is set at build time with
// -ldflags "-X github.com/hashicorp-forge/appsdir/internal/version.Version=...".
var Version = "0.1.0-dev"
