package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddToContextCollectsFields(t *testing.T) {
	lc := NewLogContext()
	ctx := WithLogContext(context.Background(), lc)

	AddToContext(ctx, Operation("update_site"), SiteID("site-1"))
	AddToContext(ctx, BatchCounts(3, 1)...)

	fields := lc.Fields()
	got := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		if f.String != "" {
			got[f.Key] = f.String
		} else {
			got[f.Key] = f.Integer
		}
	}
	assert.Equal(t, map[string]interface{}{
		FieldOperation:    "update_site",
		FieldSiteID:       "site-1",
		FieldItemCount:    int64(3),
		FieldSuccessCount: int64(2),
		FieldFailedCount:  int64(1),
	}, got)
}

func TestAddToContextOutsideRequest(t *testing.T) {
	assert.NotPanics(t, func() {
		AddToContext(context.Background(), Success(true))
	})
	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "req-7", GetCorrelationID(WithCorrelationID(context.Background(), "req-7")))
}
