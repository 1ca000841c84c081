package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/authz"
	"github.com/AntonEmtsov/foodgram-project-react/internal/observability"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

const (
	FormatCSV  = "csv"
	FormatText = "txt"

	shoppingListBaseName = "shopping_cart"
)

// utf8BOM lets spreadsheet apps detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ShoppingLine is one aggregated (ingredient, unit) row of a shopping list.
type ShoppingLine struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int64  `json:"amount"`
}

type ShoppingListFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Lines       int
}

type ShoppingListService interface {
	BuildList(ctx context.Context, userID uuid.UUID) ([]ShoppingLine, error)
	Download(ctx context.Context, format string) (*ShoppingListFile, error)
}

type shoppingListService struct {
	log     *logger.Logger
	ledger  repos.LedgerRepo
	metrics *observability.Metrics
}

func NewShoppingListService(log *logger.Logger, ledger repos.LedgerRepo, metrics *observability.Metrics) ShoppingListService {
	return &shoppingListService{log: log.With("service", "ShoppingListService"), ledger: ledger, metrics: metrics}
}

// BuildList expands every recipe in userID's cart through the ledger and
// sums amounts per (name, unit). An empty cart yields an empty list.
func (s *shoppingListService) BuildList(ctx context.Context, userID uuid.UUID) ([]ShoppingLine, error) {
	ctx, span := observability.StartSpan(ctx, "ShoppingList.Build", attribute.String("user.id", userID.String()))
	defer span.End()

	rows, err := s.ledger.CartLines(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		span.RecordError(err)
		return nil, domainagg.Wrap(domainagg.CodeInternal, "ShoppingList.Build", err)
	}
	lines := AggregateShoppingList(rows)
	span.SetAttributes(attribute.Int("shopping_list.rows", len(rows)), attribute.Int("shopping_list.lines", len(lines)))
	return lines, nil
}

func (s *shoppingListService) Download(ctx context.Context, format string) (*ShoppingListFile, error) {
	const op = "ShoppingList.Download"
	actor := ActorFromContext(ctx)
	if d := authz.Authorize(actor, authz.Resource{Kind: authz.ResourceCart, OwnerID: actor.UserID}, authz.ActionCollect); !d.Allowed {
		return nil, unauthenticated(op)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	render, contentType := RenderCSV, "text/csv; charset=utf-8"
	switch format {
	case FormatCSV:
	case FormatText:
		render, contentType = RenderText, "text/plain; charset=utf-8"
	default:
		return nil, domainagg.NewFieldError(op, "format", fmt.Sprintf("unsupported format %q", format))
	}

	lines, err := s.BuildList(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := render(&buf, lines); err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	out := &ShoppingListFile{
		Filename:    shoppingListBaseName + "." + format,
		ContentType: contentType,
		Lines:       len(lines),
	}
	out.Body = buf.Bytes()
	s.metrics.ObserveShoppingList(format, len(lines))
	s.log.Debug("shopping list rendered", "user_id", actor.UserID, "format", format, "lines", len(lines))
	return out, nil
}

type lineKey struct {
	name string
	unit string
}

// AggregateShoppingList groups rows by (name, unit) and sums amounts. The
// result is ordered by name, then unit, whatever the input order.
func AggregateShoppingList(rows []repos.LedgerLine) []ShoppingLine {
	totals := make(map[lineKey]int64, len(rows))
	for _, r := range rows {
		totals[lineKey{name: r.Name, unit: r.MeasurementUnit}] += int64(r.Amount)
	}
	out := make([]ShoppingLine, 0, len(totals))
	for k, amount := range totals {
		out = append(out, ShoppingLine{Name: k.name, MeasurementUnit: k.unit, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].MeasurementUnit < out[j].MeasurementUnit
	})
	return out
}

// RenderCSV writes a BOM, a header row and one row per line.
func RenderCSV(w io.Writer, lines []ShoppingLine) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ingredient", "measurement_unit", "amount"}); err != nil {
		return err
	}
	for _, l := range lines {
		if err := cw.Write([]string{l.Name, l.MeasurementUnit, strconv.FormatInt(l.Amount, 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderText writes a BOM, a title line and one "name: amount unit" line per
// entry.
func RenderText(w io.Writer, lines []ShoppingLine) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "Shopping list:\n"); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %d %s\n", l.Name, l.Amount, l.MeasurementUnit); err != nil {
			return err
		}
	}
	return nil
}
