package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-labs/tessera/internal/engine"
	"github.com/tessera-labs/tessera/internal/example"
	"github.com/tessera-labs/tessera/internal/feature"
)

// capture records what the run command handed to a descriptor.
type capture struct {
	runs int
	opts engine.RunOptions
}

func testContainer(t *testing.T, c *capture) *Container {
	t.Helper()
	demo, err := example.NewDescriptor("demo", "a stub that records its options",
		func(ctx context.Context, opts engine.RunOptions) error {
			c.runs++
			c.opts = opts
			return nil
		})
	require.NoError(t, err)
	aurora, err := example.NewDescriptor("aurora", "a second stub so the catalog sorts",
		func(ctx context.Context, opts engine.RunOptions) error { return nil })
	require.NoError(t, err)

	registry, err := example.NewRegistry(demo, aurora)
	require.NoError(t, err)
	return &Container{Registry: registry}
}

func execute(t *testing.T, container *Container, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(container)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// TestRunCommand_OptionPlumbing tests that run flags arrive at the example
// exactly as the engine expects them.
func TestRunCommand_OptionPlumbing(t *testing.T) {
	seed := uint64(42)

	tests := []struct {
		name        string
		args        []string
		expected    engine.RunOptions
		description string
	}{
		{
			name:        "Defaults",
			args:        []string{"run", "demo"},
			expected:    engine.RunOptions{ViewOverride: "auto"},
			description: "a bare run keeps the example's own view and a random seed",
		},
		{
			name: "EverythingSet",
			args: []string{"run", "demo", "--seed", "42", "--view", "final",
				"--features", "png,truecolor", "--manifest", "caps.hcl",
				"--headless", "--export", "snap.png"},
			expected: engine.RunOptions{
				Seed:         &seed,
				ViewOverride: "final",
				Features:     []string{"png", "truecolor"},
				ManifestPath: "caps.hcl",
				Headless:     true,
				ExportPath:   "snap.png",
			},
			description: "every flag lands in its option field",
		},
		{
			name:        "SeedZeroStaysRandom",
			args:        []string{"run", "demo", "--seed", "0"},
			expected:    engine.RunOptions{ViewOverride: "auto"},
			description: "an explicit zero seed still means a random draw",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c capture
			_, err := execute(t, testContainer(t, &c), tt.args...)
			require.NoError(t, err, tt.description)
			assert.Equal(t, 1, c.runs, "The descriptor runs exactly once")
			assert.Equal(t, tt.expected, c.opts, tt.description)
		})
	}
}

// TestRunCommand_UnknownExample tests the lookup failure path
func TestRunCommand_UnknownExample(t *testing.T) {
	var c capture
	_, err := execute(t, testContainer(t, &c), "run", "nonexistent")

	var unknown example.UnknownExampleError
	require.ErrorAs(t, err, &unknown, "An unregistered name surfaces as the typed lookup error")
	assert.Equal(t, "nonexistent", unknown.Name)
	assert.Equal(t, []string{"aurora", "demo"}, unknown.Known, "The diagnostic carries the catalog")
	assert.Zero(t, c.runs, "Nothing runs on a failed lookup")
}

// TestRunCommand_RequiresExactlyOneName tests the argument contract
func TestRunCommand_RequiresExactlyOneName(t *testing.T) {
	var c capture
	container := testContainer(t, &c)

	_, err := execute(t, container, "run")
	assert.Error(t, err, "The example name is mandatory")

	_, err = execute(t, container, "run", "demo", "aurora")
	assert.Error(t, err, "Only one example runs per invocation")
	assert.Zero(t, c.runs)
}

// TestListCommand tests the catalog listing
func TestListCommand(t *testing.T) {
	var c capture
	out, err := execute(t, testContainer(t, &c), "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Registered examples (2)")
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "a stub that records its options")
	assert.Less(t, strings.Index(out, "aurora"), strings.Index(out, "demo"),
		"The catalog lists names in sorted order")
}

// TestFeaturesCommand tests the manifest display and resolution trace
func TestFeaturesCommand(t *testing.T) {
	var c capture
	container := testContainer(t, &c)

	out, err := execute(t, container, "features")
	require.NoError(t, err)
	assert.Contains(t, out, "Capability manifest (built-in)")
	assert.Contains(t, out, "truecolor")
	assert.Contains(t, out, "mouse-all-motion")
	assert.Contains(t, out, "Resolved:")

	out, err = execute(t, container, "features", "--features", "color-256")
	require.NoError(t, err)
	assert.Contains(t, out, "Requested: color-256")
	assert.Contains(t, out, "color-256", "The requested flag joins the resolved set")

	_, err = execute(t, container, "features", "--features", "mouse-cell-motion")
	var conflict feature.ConflictError
	require.ErrorAs(t, err, &conflict,
		"Requesting the held-button mouse mode collides with the default hover mode")

	_, err = execute(t, container, "features", "--features", "webgl")
	var unknown feature.UnknownFlagError
	require.ErrorAs(t, err, &unknown, "A flag outside the vocabulary fails resolution")
}

// TestVersionCommand tests the version output
func TestVersionCommand(t *testing.T) {
	var c capture
	out, err := execute(t, testContainer(t, &c), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tessera version dev")
	assert.Contains(t, out, "Platform:")
}

// TestRootCommand_NoSecondDiagnostic tests that cobra stays silent and the
// error travels back to the caller, which owns the stderr print.
func TestRootCommand_NoSecondDiagnostic(t *testing.T) {
	var c capture
	out, err := execute(t, testContainer(t, &c), "run", "nonexistent")
	require.Error(t, err)
	assert.NotContains(t, out, "Error:", "The command writers carry no duplicate diagnostic")
	assert.NotContains(t, out, "Usage:", "Runtime failures do not dump usage")
}
