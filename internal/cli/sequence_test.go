package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("KV_DRIVER", "memory")
	t.Setenv("REMOTE_URL", "")
	t.Setenv("REMOTE_KEY", "")
	t.Setenv("LOG_LEVEL", "error")

	root := &cobra.Command{Use: "ornik8", SilenceUsage: true}
	root.AddCommand(SequenceCmd(), SeedCmd())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestSequenceNext_PrintsFirstNumber(t *testing.T) {
	out := strings.TrimSpace(runCLI(t, "sequence", "next"))
	assert.Regexp(t, `^\d{2}/00001$`, out)
}

func TestSeed_ListsBaselineAccounts(t *testing.T) {
	out := runCLI(t, "seed")
	assert.Contains(t, out, "admin-001")
	assert.Contains(t, out, "investigator-001")
}
