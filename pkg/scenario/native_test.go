package scenario_test

import (
	"testing"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/phase"
	"github.com/aretw0/pacer/pkg/ports"
	"github.com/aretw0/pacer/pkg/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requested() *domain.Cancellation {
	c := domain.NewCancellation()
	c.Request()
	return c
}

func TestNativeDemos(t *testing.T) {
	names := make([]string, 0)
	for _, d := range scenario.NativeDemos() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"notification", "statusbar", "discrete", "combined", "quicksetup"}, names)
}

func TestRunNativeDemo(t *testing.T) {
	r := phase.NewRunner(phase.WithTimeScale(0))

	t.Run("completes", func(t *testing.T) {
		var progress []string
		msg, err := scenario.RunNativeDemo(r, "notification", nil, ports.SinkFuncs{
			OnProgress: func(s string) { progress = append(progress, s) },
		})
		require.NoError(t, err)
		assert.Equal(t, "✅ Notification progress completed!", msg)
		assert.Len(t, progress, 10)
	})

	t.Run("cancellable demo stops", func(t *testing.T) {
		msg, err := scenario.RunNativeDemo(r, "notification", requested(), nil)
		require.NoError(t, err)
		assert.Equal(t, "Progress was cancelled by user", msg)
	})

	t.Run("non-cancellable demo ignores the signal", func(t *testing.T) {
		var progress []string
		msg, err := scenario.RunNativeDemo(r, "quicksetup", requested(), ports.SinkFuncs{
			OnProgress: func(s string) { progress = append(progress, s) },
		})
		require.NoError(t, err)
		assert.Contains(t, msg, "Quick setup completed")
		assert.Equal(t, []string{"Analyzing workspace...", "Configuring settings...", "Installing dependencies...", "Setup complete!"}, progress)
	})

	t.Run("combined keeps the background running", func(t *testing.T) {
		msg, err := scenario.RunNativeDemo(r, "combined", requested(), nil)
		require.NoError(t, err)
		assert.Contains(t, msg, "Background: 8 steps. Foreground: 0 steps.")
		assert.Contains(t, msg, "cancelled before step 1")
		assert.Contains(t, msg, "Both progress operations completed!")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := scenario.RunNativeDemo(r, "nope", nil, nil)
		assert.ErrorIs(t, err, domain.ErrUnknownScenario)
	})
}
