// Package cmdtest runs appsdir commands against an in-memory directory.
package cmdtest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/appsdir/internal/cmd/base"
)

// ConfigPath is where NewCommand writes the configuration file.
const ConfigPath = "/appsdir.hcl"

const (
	UserFeedPath = "/a/feeds/example.com/user/2.0/"
	CustomerPath = "/a/feeds/customer/2.0/customerId"
	OrgUnitPath  = "/a/feeds/orgunit/2.0/"

	ResourceToken = "resource-token"
	CustomerID    = "C03az79cb"

	CustomerDocument = `<?xml version='1.0' encoding='UTF-8'?>
<entry xmlns='http://www.w3.org/2005/Atom' xmlns:apps='http://schemas.google.com/apps/2006'>
  <id>https://apps-apis.google.com/a/feeds/customer/2.0/C03az79cb</id>
  <apps:property name='customerOrgUnitName' value='example.com'/>
  <apps:property name='customerId' value='C03az79cb'/>
</entry>`
)

// Server is a fake directory API.
type Server struct {
	*httptest.Server

	// MoveResponse is the body returned for org unit moves.
	MoveResponse string

	mu    sync.Mutex
	moves []string
}

// NewServer starts a fake directory API closed at the end of the test.
func NewServer(t *testing.T) *Server {
	s := &Server{MoveResponse: "<entry/>"}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" &&
			r.Header.Get("Authorization") != "GoogleLogin auth=login-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := r.URL.Query().Get("T")

		switch {
		case r.URL.Path == "/login":
			fmt.Fprint(w, "Auth=login-token\n")
		case r.URL.Path == UserFeedPath && token == "":
			fmt.Fprint(w, ResourceToken)
		case token != ResourceToken:
			w.WriteHeader(http.StatusForbidden)
		case r.URL.Path == UserFeedPath:
			fmt.Fprint(w, "<feed/>")
		case strings.HasPrefix(r.URL.Path, UserFeedPath):
			fmt.Fprintf(w, "<entry>%s</entry>", strings.TrimPrefix(r.URL.Path, UserFeedPath))
		case r.URL.Path == CustomerPath:
			fmt.Fprint(w, CustomerDocument)
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, OrgUnitPath):
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			s.mu.Lock()
			s.moves = append(s.moves, r.URL.EscapedPath()+" "+string(body))
			s.mu.Unlock()
			fmt.Fprint(w, s.MoveResponse)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

// Moves returns the path and body of every move received.
func (s *Server) Moves() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.moves...)
}

// Config returns a configuration file pointing at s.
func (s *Server) Config() string {
	return fmt.Sprintf(`
directory {
  email             = "admin@example.com"
  password          = "secret"
  login_url         = "%[1]s/login"
  base_url          = "%[1]s%[2]s"
  customer_id_url   = "%[1]s%[3]s"
  move_to_group_url = "%[1]s%[4]s"
  timeout           = "5s"
}
`, s.URL, UserFeedPath, CustomerPath, OrgUnitPath)
}

// NewCommand returns a base command reading its configuration for s from an
// in-memory filesystem, and the UI it writes to.
func NewCommand(t *testing.T, s *Server) (*base.Command, *cli.MockUi) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ConfigPath, []byte(s.Config()), 0o600))

	ui := cli.NewMockUi()
	c := base.NewCommand(hclog.NewNullLogger(), ui)
	c.Fs = fs
	return c, ui
}
