package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/provenance-engine/ledger"
)

func TestFieldString(t *testing.T) {
	doc := map[string]any{
		"docType": "product",
		"locationData": map[string]any{
			"current": map[string]any{"location": "Warehouse A"},
		},
		"unitQuantity": 60.0,
	}

	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"docType", "product", true},
		{"locationData.current.location", "Warehouse A", true},
		{"locationData.current.missing", "", false},
		{"locationData.missing.location", "", false},
		{"unitQuantity", "", false}, // numeric fields are not selectable
		{"missing", "", false},
	}
	for _, tt := range tests {
		got, ok := ledger.FieldString(doc, tt.path)
		assert.Equal(t, tt.wantOK, ok, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestSelectorValidate(t *testing.T) {
	tests := []struct {
		name    string
		sel     ledger.Selector
		wantErr bool
	}{
		{"empty selector", ledger.Selector{}, false},
		{"plain fields", ledger.Selector{DocType: "product", Equals: map[string]string{"category": "coffee"}, SortBy: "id"}, false},
		{"dotted path", ledger.Selector{Equals: map[string]string{"locationData.current.location": "x"}}, false},
		{"empty equality key", ledger.Selector{Equals: map[string]string{"": "x"}}, true},
		{"empty path segment", ledger.Selector{Equals: map[string]string{"locationData..location": "x"}}, true},
		{"trailing dot in sort", ledger.Selector{SortBy: "timestamp."}, true},
	}
	for _, tt := range tests {
		err := tt.sel.Validate()
		if tt.wantErr {
			assert.ErrorIs(t, err, ledger.ErrBadSelector, tt.name)
		} else {
			assert.NoError(t, err, tt.name)
		}
	}
}

func TestSelectorMatches(t *testing.T) {
	doc := map[string]any{
		"docType":  "product",
		"category": "coffee",
	}

	assert.True(t, ledger.Selector{DocType: "product"}.Matches(doc))
	assert.False(t, ledger.Selector{DocType: "quality"}.Matches(doc))
	assert.True(t, ledger.Selector{Equals: map[string]string{"category": "coffee"}}.Matches(doc))
	assert.False(t, ledger.Selector{Equals: map[string]string{"category": "cocoa"}}.Matches(doc))
	assert.True(t, ledger.Selector{}.Matches(doc), "empty selector matches everything")
}
