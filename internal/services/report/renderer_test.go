package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanctionwatch/app-server/internal/apperrors"
	"github.com/sanctionwatch/app-server/internal/models"
)

type stubStore struct {
	reports []models.SanctionReport
	err     error
}

func (s *stubStore) Insert(context.Context, *models.SanctionReport) error { return nil }

func (s *stubStore) List(context.Context) ([]models.SanctionReport, error) {
	return s.reports, s.err
}

func TestRenderOneRowPerReport(t *testing.T) {
	reports := []models.SanctionReport{
		{OrderID: "order-2", ShopID: "shop-1", CustomerName: "John Roe", CreatedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)},
		{OrderID: "order-1", ShopID: "shop-1", CustomerName: "Jane Doe", CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{OrderID: "order-1", ShopID: "shop-1", CustomerName: "Jane Doe", CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
	}

	html, err := Render(reports)
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Sanction list</title>")
	assert.Equal(t, 3, strings.Count(html, "<tr>")-1, "one header row plus one row per report")
	assert.Equal(t, 2, strings.Count(html, "<td>Jane Doe</td>"))
	assert.Contains(t, html, "<td>2024-02-01T10:00:00Z</td>")
	assert.Less(t, strings.Index(html, "order-2"), strings.Index(html, "order-1"), "store order is kept")
}

func TestRenderEscapesNames(t *testing.T) {
	html, err := Render([]models.SanctionReport{{OrderID: "o", ShopID: "s", CustomerName: "<script>x</script>", CreatedAt: time.Now()}})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>x</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderEmpty(t *testing.T) {
	html, err := Render(nil)
	require.NoError(t, err)

	assert.Contains(t, html, "No sanctioned customers")
	assert.NotContains(t, html, "<table>")
}

func TestListReports(t *testing.T) {
	svc := NewService(&stubStore{reports: []models.SanctionReport{{OrderID: "order-1", ShopID: "shop-1", CustomerName: "Jane Doe", CreatedAt: time.Now()}}})

	html, err := svc.ListReports(context.Background())

	require.NoError(t, err)
	assert.Contains(t, html, "<td>order-1</td>")
}

func TestListReportsStoreFailure(t *testing.T) {
	svc := NewService(&stubStore{err: errors.New("db down")})

	_, err := svc.ListReports(context.Background())

	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorage))
}
