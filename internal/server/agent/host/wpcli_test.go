package host

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alwanly/service-remote-update/internal/models"
	"github.com/Alwanly/service-remote-update/pkg/logger"
)

type scriptedRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (s *scriptedRunner) run(ctx context.Context, bin string, args ...string) ([]byte, error) {
	// drop the global flags so keys stay readable
	var rest []string
	for _, a := range args {
		if strings.HasPrefix(a, "--path=") || a == "--no-color" || a == "--allow-root" {
			continue
		}
		rest = append(rest, a)
	}
	key := strings.Join(rest, " ")
	s.calls = append(s.calls, key)
	if err, ok := s.errs[key]; ok {
		return nil, err
	}
	return []byte(s.outputs[key]), nil
}

func newScripted(r *scriptedRunner) *WPCLI {
	return NewWPCLI(WPCLIConfig{Path: "/srv/wp"}, logger.NewNop()).WithRunner(r.run)
}

func TestWPCLIPendingCore(t *testing.T) {
	r := &scriptedRunner{outputs: map[string]string{
		"core check-update --format=json": `[{"version":"6.4","update_type":"minor","package_url":"https://x"}]`,
		"core version":                    "6.3\n",
	}}

	pending, err := newScripted(r).ListPending(context.Background(), models.CategoryCore)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "6.4", pending[0].NewVersion)
	assert.Equal(t, "6.3", pending[0].Version)
	assert.Equal(t, "upgrade", pending[0].Response)
}

func TestWPCLIPendingCoreLatest(t *testing.T) {
	r := &scriptedRunner{outputs: map[string]string{
		"core check-update --format=json": "Success: WordPress is at the latest version.\n",
	}}

	pending, err := newScripted(r).ListPending(context.Background(), models.CategoryCore)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestWPCLIPendingPluginsSkipsItemsWithoutUpdate(t *testing.T) {
	r := &scriptedRunner{outputs: map[string]string{
		"plugin list --update=available --fields=name,title,version,update_version,file --format=json": `[
			{"name":"akismet","title":"Akismet","version":"5.0","update_version":"5.3","file":"akismet/akismet.php"},
			{"name":"hello","title":"Hello Dolly","version":"1.7","update_version":"","file":"hello.php"}
		]`,
	}}

	pending, err := newScripted(r).ListPending(context.Background(), models.CategoryPlugins)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "akismet/akismet.php", pending[0].ID)
	assert.Equal(t, "Akismet", pending[0].Name)
	assert.Equal(t, "akismet", pending[0].Ref)
}

func TestWPCLIApplyUsesSlug(t *testing.T) {
	r := &scriptedRunner{errs: map[string]error{
		"theme update twentytwenty": errors.New("Download failed."),
	}}
	cli := newScripted(r)

	require.NoError(t, cli.Apply(context.Background(), models.CategoryPlugins, Descriptor{ID: "akismet/akismet.php"}))
	err := cli.Apply(context.Background(), models.CategoryThemes, Descriptor{ID: "twentytwenty", Ref: "twentytwenty"})
	assert.EqualError(t, err, "Download failed.")
	require.NoError(t, cli.Apply(context.Background(), models.CategoryCore, Descriptor{ID: "core", NewVersion: "6.4"}))

	assert.Equal(t, []string{
		"plugin update akismet",
		"theme update twentytwenty",
		"core update --version=6.4",
		"core update-db",
	}, r.calls)
}

func TestCLIError(t *testing.T) {
	err := cliError("Warning: something\nError: Could not create directory.\n", errors.New("exit status 1"))
	assert.EqualError(t, err, "Could not create directory.")

	err = cliError("", errors.New("exit status 1"))
	assert.EqualError(t, err, "exit status 1")
}
