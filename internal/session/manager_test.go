package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyankgupta/doi-monitor/internal/domain"
)

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager()

	created := m.Create("dataset-1", 7)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "dataset-1", created.DatasetID)
	assert.Equal(t, 7, created.WindowDays)
	assert.Equal(t, domain.ViewNone, created.Selection.View())

	got, err := m.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestManagerGetUnknown(t *testing.T) {
	m := NewManager()

	_, err := m.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerApplySelection(t *testing.T) {
	m := NewManager()
	sess := m.Create("dataset-1", 7)

	sess, err := m.ApplySelection(sess.ID, "pan", "Product Wise")
	require.NoError(t, err)
	assert.Equal(t, domain.PanProduct, sess.Selection.Pan)

	// Picking a concrete SKU forces the pan mode back to none.
	sess, err = m.ApplySelection(sess.ID, "sku", "Widget-A")
	require.NoError(t, err)
	assert.Equal(t, "Widget-A", sess.Selection.SKU)
	assert.Equal(t, domain.PanNone, sess.Selection.Pan)

	sess, err = m.ApplySelection(sess.ID, "city", "Mumbai")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewSKUCity, sess.Selection.View())

	// Picking a pan mode clears both individual choices.
	sess, err = m.ApplySelection(sess.ID, "pan", "City Wise")
	require.NoError(t, err)
	assert.Empty(t, sess.Selection.SKU)
	assert.Empty(t, sess.Selection.City)
	assert.Equal(t, domain.ViewPanCity, sess.Selection.View())

	// "None" clears a single dimension.
	sess, err = m.ApplySelection(sess.ID, "pan", "None")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewNone, sess.Selection.View())
}

func TestManagerApplySelectionValidation(t *testing.T) {
	m := NewManager()
	sess := m.Create("dataset-1", 7)

	_, err := m.ApplySelection(sess.ID, "brand", "Acme")
	assert.Error(t, err)

	_, err = m.ApplySelection(sess.ID, "pan", "State Wise")
	assert.Error(t, err)

	_, err = m.ApplySelection("missing", "sku", "Widget-A")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerSetWindow(t *testing.T) {
	m := NewManager()
	sess := m.Create("dataset-1", 7)

	updated, err := m.SetWindow(sess.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, updated.WindowDays)

	_, err = m.SetWindow(sess.ID, 0)
	assert.Error(t, err)

	_, err = m.SetWindow("missing", 7)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerReturnsCopies(t *testing.T) {
	m := NewManager()
	sess := m.Create("dataset-1", 7)

	// Mutating a returned session must not leak into the stored state.
	sess.WindowDays = 99
	sess.Selection = sess.Selection.WithSKU("Widget-A")

	fresh, err := m.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, fresh.WindowDays)
	assert.Empty(t, fresh.Selection.SKU)
}
