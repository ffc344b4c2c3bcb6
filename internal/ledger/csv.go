package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-margin-pipeline/pkg/enums"
	pkgerrors "github.com/angelmondragon/retail-margin-pipeline/pkg/errors"
)

// Column layouts of the five CSV tables. The downstream consumer matches
// on these exact names and runs naive SUM() aggregations over the signed
// columns, so order and spelling are part of the contract.
var (
	orderColumns = []string{
		"order_id", "customer_id", "order_date", "shipped_date",
		"shipping_country", "channel", "order_line_count",
	}
	itemColumns = []string{
		"order_item_id", "order_id", "customer_id", "product_id",
		"product_description", "quantity", "unit_price", "line_discount_amount",
		"order_date", "shipped_date", "shipping_country", "channel",
	}
	enrichedOrderColumns = append(append([]string{}, orderColumns...),
		"ship_rate", "order_net", "shipping_cost_order",
	)
	enrichedItemColumns = append(append([]string{}, itemColumns...),
		"is_return", "transaction_type", "gross_item_revenue", "net_item_revenue",
		"unit_cost", "item_cogs", "allocated_shipping_cost_item",
		"return_amount", "contribution_margin",
	)
	costHistoryColumns = []string{"product_id", "month_start", "unit_cost", "source"}
)

const timestampLayout = "2006-01-02 15:04:05"

var parseLayouts = []string{
	timestampLayout,
	time.RFC3339,
	time.DateOnly,
}

// ReadOrders loads the normalized orders table.
func ReadOrders(path string) ([]Order, error) {
	rows, err := readTable(path, orderColumns)
	if err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(rows))
	for i, row := range rows {
		orderDate, err := parseTimestamp(row[2])
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("orders row %d: order_date", i+2))
		}
		shippedDate, err := parseTimestamp(row[3])
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("orders row %d: shipped_date", i+2))
		}
		orders = append(orders, Order{
			OrderID:         row[0],
			CustomerID:      row[1],
			OrderDate:       orderDate,
			ShippedDate:     shippedDate,
			ShippingCountry: row[4],
			Channel:         enums.Channel(row[5]),
			OrderLineCount:  int(parseInt(row[6])),
		})
	}
	return orders, nil
}

// ReadOrderItems loads the normalized order_items table.
func ReadOrderItems(path string) ([]OrderItem, error) {
	rows, err := readTable(path, itemColumns)
	if err != nil {
		return nil, err
	}

	items := make([]OrderItem, 0, len(rows))
	for i, row := range rows {
		orderDate, err := parseTimestamp(row[8])
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("order_items row %d: order_date", i+2))
		}
		shippedDate, err := parseTimestamp(row[9])
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("order_items row %d: shipped_date", i+2))
		}
		items = append(items, OrderItem{
			OrderItemID:        parseInt(row[0]),
			OrderID:            row[1],
			CustomerID:         row[2],
			ProductID:          row[3],
			ProductDescription: row[4],
			Quantity:           parseInt(row[5]),
			UnitPrice:          parseDecimal(row[6]),
			LineDiscountAmount: parseDecimal(row[7]),
			OrderDate:          orderDate,
			ShippedDate:        shippedDate,
			ShippingCountry:    row[10],
			Channel:            enums.Channel(row[11]),
		})
	}
	return items, nil
}

// WriteEnrichedOrders emits the enriched orders table.
func WriteEnrichedOrders(path string, orders []EnrichedOrder) error {
	return writeTable(path, enrichedOrderColumns, len(orders), func(w *csv.Writer, i int) error {
		o := orders[i]
		return w.Write([]string{
			o.OrderID,
			o.CustomerID,
			o.OrderDate.UTC().Format(timestampLayout),
			o.ShippedDate.UTC().Format(timestampLayout),
			o.ShippingCountry,
			o.Channel.String(),
			strconv.Itoa(o.OrderLineCount),
			o.ShipRate.String(),
			o.OrderNet.String(),
			o.ShippingCostOrder.String(),
		})
	})
}

// WriteEnrichedOrderItems emits the enriched order_items table.
func WriteEnrichedOrderItems(path string, items []EnrichedOrderItem) error {
	return writeTable(path, enrichedItemColumns, len(items), func(w *csv.Writer, i int) error {
		it := items[i]
		return w.Write([]string{
			strconv.FormatInt(it.OrderItemID, 10),
			it.OrderID,
			it.CustomerID,
			it.ProductID,
			it.ProductDescription,
			strconv.FormatInt(it.Quantity, 10),
			it.UnitPrice.String(),
			it.LineDiscountAmount.String(),
			it.OrderDate.UTC().Format(timestampLayout),
			it.ShippedDate.UTC().Format(timestampLayout),
			it.ShippingCountry,
			it.Channel.String(),
			boolToFlag(it.IsReturn),
			it.TransactionType.String(),
			it.GrossItemRevenue.String(),
			it.NetItemRevenue.String(),
			it.UnitCost.String(),
			it.ItemCOGS.String(),
			it.AllocatedShipping.String(),
			it.ReturnAmount.String(),
			it.ContributionMargin.String(),
		})
	})
}

// WriteCostHistory emits the product cost history table.
func WriteCostHistory(path string, history []ProductCostHistory) error {
	return writeTable(path, costHistoryColumns, len(history), func(w *csv.Writer, i int) error {
		h := history[i]
		return w.Write([]string{
			h.ProductID,
			h.MonthStart.UTC().Format(timestampLayout),
			h.UnitCost.String(),
			h.Source.String(),
		})
	})
}

func readTable(path string, columns []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("opening %s", path))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(columns)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s: missing header", path))
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("reading %s header", path))
	}
	for i, col := range columns {
		if header[i] != col {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("%s: expected column %q at position %d, got %q", path, col, i, header[i]))
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("reading %s rows", path))
	}
	return rows, nil
}

func writeTable(path string, columns []string, count int, writeRow func(w *csv.Writer, i int) error) error {
	f, err := os.Create(path)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("creating %s", path))
	}

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("writing %s header", path))
	}
	for i := 0; i < count; i++ {
		if err := writeRow(w, i); err != nil {
			f.Close()
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("writing %s row %d", path, i))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("flushing %s", path))
	}
	if err := f.Close(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("closing %s", path))
	}
	return nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}

// Invalid numeric input is treated as zero; the upstream producer owns
// numeric validation.
func parseInt(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseDecimal(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func boolToFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
