package tabset

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects callback notifications in order.
type recorder struct {
	events []string
}

func (r *recorder) tab(label string) *Tab {
	t := NewTab(label, nil)
	t.OnSelect = func() { r.events = append(r.events, "select:"+label) }
	t.OnDeselect = func() { r.events = append(r.events, "deselect:"+label) }
	return t
}

func (r *recorder) reset() {
	r.events = nil
}

func labels(c *Controller) []string {
	var out []string
	for _, t := range c.Tabs() {
		out = append(out, t.Label)
	}
	return out
}

func activeCount(c *Controller) int {
	n := 0
	for _, t := range c.Tabs() {
		if t.Active {
			n++
		}
	}
	return n
}

func TestAddFirstTab(t *testing.T) {
	rec := &recorder{}
	c := NewController(Options{})

	x := rec.tab("X")
	c.AddTab(x)

	assert.True(t, x.Active)
	assert.Empty(t, rec.events, "first tab activates without notifications")
	assert.Equal(t, "tabs", c.Options().Type)
}

func TestAddTab(t *testing.T) {
	rec := &recorder{}
	c := NewController(Options{})
	x, y, z := rec.tab("X"), rec.tab("Y"), rec.tab("Z")

	c.AddTab(x)
	c.AddTab(y)
	assert.True(t, x.Active)
	assert.False(t, y.Active)
	assert.Empty(t, rec.events)

	z.Active = true
	c.AddTab(z)
	assert.Equal(t, []string{"X", "Y", "Z"}, labels(c))
	assert.Equal(t, z, c.Active())
	assert.Equal(t, []string{"deselect:X", "select:Z"}, rec.events)

	rec.reset()
	c.AddTab(z)
	assert.Equal(t, 3, c.Len(), "adding an owned tab twice is ignored")
	assert.Empty(t, rec.events)
}

func TestInsertTab(t *testing.T) {
	c := NewController(Options{})
	p, q := NewTab("P", nil), NewTab("Q", nil)
	c.AddTab(p)
	c.AddTab(q)

	y := NewTab("Y", nil)
	c.InsertTab(1, y)
	assert.Equal(t, []string{"P", "Y", "Q"}, labels(c))

	c.InsertTab(-5, NewTab("first", nil))
	c.InsertTab(99, NewTab("last", nil))
	assert.Equal(t, []string{"first", "P", "Y", "Q", "last"}, labels(c))
	assert.Equal(t, p, c.Active())
}

func TestSelect(t *testing.T) {
	rec := &recorder{}
	c := NewController(Options{})
	x, y := rec.tab("X"), rec.tab("Y")
	c.AddTab(x)
	c.AddTab(y)

	c.Select(y)
	assert.Equal(t, []string{"deselect:X", "select:Y"}, rec.events)

	rec.reset()
	c.Select(y)
	assert.Equal(t, []string{"select:Y"}, rec.events, "redundant select only re-notifies the tab")

	// A stale active sibling is cleaned up by the next select.
	rec.reset()
	x.Active = true
	c.Select(y)
	assert.Equal(t, []string{"deselect:X", "select:Y"}, rec.events)
	assert.Equal(t, 1, activeCount(c))

	rec.reset()
	c.Select(rec.tab("stranger"))
	assert.Empty(t, rec.events, "tabs not owned by the controller are ignored")
	assert.Equal(t, y, c.Active())
}

func TestRemoveTabReselection(t *testing.T) {
	tests := []struct {
		name       string
		active     string
		remove     string
		wantActive string
		wantOrder  []string
	}{
		{"active middle selects next", "Y", "Y", "Z", []string{"X", "Z"}},
		{"active first selects next", "X", "X", "Y", []string{"Y", "Z"}},
		{"active last selects previous", "Z", "Z", "Y", []string{"X", "Y"}},
		{"inactive removal keeps active", "X", "Z", "X", []string{"X", "Y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(Options{})
			byLabel := map[string]*Tab{}
			for _, l := range []string{"X", "Y", "Z"} {
				tab := NewTab(l, nil)
				byLabel[l] = tab
				c.AddTab(tab)
			}
			c.Select(byLabel[tt.active])

			c.RemoveTab(byLabel[tt.remove])

			assert.Equal(t, tt.wantOrder, labels(c))
			require.NotNil(t, c.Active())
			assert.Equal(t, tt.wantActive, c.Active().Label)
			assert.Equal(t, 1, activeCount(c))
		})
	}
}

func TestRemoveSoleTab(t *testing.T) {
	rec := &recorder{}
	c := NewController(Options{})
	x := rec.tab("X")
	c.AddTab(x)

	c.RemoveTab(x)
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Active())
	assert.Empty(t, rec.events)
}

func TestRemoveAbsentTabIsNoop(t *testing.T) {
	c := NewController(Options{})
	x, y := NewTab("X", nil), NewTab("Y", nil)
	c.AddTab(x)
	c.AddTab(y)

	c.RemoveTab(NewTab("ghost", nil))
	c.RemoveTab(nil)
	assert.Equal(t, []string{"X", "Y"}, labels(c))
	assert.Equal(t, x, c.Active())
}

func TestDestroyedSkipsReselection(t *testing.T) {
	rec := &recorder{}
	c := NewController(Options{})
	x, y, z := rec.tab("X"), rec.tab("Y"), rec.tab("Z")
	c.AddTab(x)
	c.AddTab(y)
	c.AddTab(z)
	c.Select(y)

	rec.reset()
	c.Destroy()
	assert.True(t, c.Destroyed())

	c.RemoveTab(y)
	c.RemoveTab(x)
	assert.Empty(t, rec.events, "no select after destroy")
	assert.Equal(t, []string{"Z"}, labels(c))
	assert.False(t, z.Active)
}

func TestUserSelectAndForceActivate(t *testing.T) {
	c := NewController(Options{})
	x, y := NewTab("X", nil), NewTab("Y", nil)
	y.Disabled = true
	c.AddTab(x)
	c.AddTab(y)

	assert.False(t, c.UserSelect(y), "disabled tab ignores clicks")
	assert.Equal(t, x, c.Active())

	c.ForceActivate(y)
	assert.Equal(t, y, c.Active(), "host may force a disabled tab active")
	assert.False(t, x.Active)

	assert.True(t, c.UserSelect(x))
	assert.Equal(t, x, c.Active())

	assert.False(t, c.UserSelect(nil))
	assert.False(t, c.UserSelect(NewTab("stranger", nil)))
}

func TestNilCallbacksAreSafe(t *testing.T) {
	c := NewController(Options{})
	x, y := NewTab("X", nil), NewTab("Y", nil)
	c.AddTab(x)
	c.AddTab(y)

	assert.NotPanics(t, func() {
		c.Select(y)
		c.RemoveTab(y)
		x.NotifyDragEnd(true)
	})
}

func TestAtMostOneActiveUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		c := NewController(Options{})
		var pool []*Tab

		for step := 0; step < 200; step++ {
			switch op := rng.Intn(5); {
			case op <= 1 || len(pool) == 0:
				tab := NewTab(fmt.Sprintf("t%d", step), nil)
				tab.Active = rng.Intn(3) == 0
				c.AddTab(tab)
				pool = append(pool, tab)
			case op == 2:
				i := rng.Intn(len(pool))
				c.RemoveTab(pool[i])
				pool = append(pool[:i], pool[i+1:]...)
			case op == 3:
				c.Select(pool[rng.Intn(len(pool))])
			default:
				c.InsertTab(rng.Intn(len(pool)+1), NewTab(fmt.Sprintf("i%d", step), nil))
				pool = c.Tabs()
			}

			require.LessOrEqual(t, activeCount(c), 1, "run %d step %d", run, step)
			if c.Len() > 0 {
				require.Equal(t, 1, activeCount(c), "run %d step %d: a non-empty strip keeps an active tab", run, step)
			}
		}
	}
}
