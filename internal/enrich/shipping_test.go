package enrich

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-margin-pipeline/internal/ledger"
)

func enrichedItem(id int64, orderID string, net string, isReturn bool) ledger.EnrichedOrderItem {
	item := ledger.EnrichedOrderItem{
		IsReturn:       isReturn,
		NetItemRevenue: dec(net),
	}
	item.OrderItemID = id
	item.OrderID = orderID
	return item
}

func plainOrder(orderID, country string) ledger.Order {
	return ledger.Order{
		OrderID:         orderID,
		CustomerID:      "c-1",
		OrderDate:       day(2025, time.April, 1),
		ShippedDate:     day(2025, time.April, 4),
		ShippingCountry: country,
		OrderLineCount:  1,
	}
}

func TestAllocationSumsToOrderShippingCost(t *testing.T) {
	p := newTestPipeline(t, 1)
	orders := []ledger.Order{plainOrder("o-1", "France")}
	items := []ledger.EnrichedOrderItem{
		enrichedItem(1, "o-1", "30", false),
		enrichedItem(2, "o-1", "50", false),
		enrichedItem(3, "o-1", "-20", true),
	}

	enrichedOrders, enrichedItems := p.allocateShipping(orders, items)

	order := enrichedOrders[0]
	if !order.OrderNet.Equal(dec("60")) {
		t.Fatalf("expected order net 60, got %s", order.OrderNet)
	}
	if !order.ShippingCostOrder.Equal(order.ShipRate.Mul(dec("60"))) {
		t.Fatalf("shipping cost %s != rate x net", order.ShippingCostOrder)
	}

	sum := decimal.Zero
	for _, it := range enrichedItems {
		sum = sum.Add(it.AllocatedShipping)
	}
	diff := sum.Sub(order.ShippingCostOrder).Abs()
	if diff.GreaterThan(dec("0.000000001")) {
		t.Fatalf("allocations sum %s != shipping cost %s", sum, order.ShippingCostOrder)
	}

	// Allocation base is |net|, so the return line still carries a share.
	if !enrichedItems[2].AllocatedShipping.IsPositive() {
		t.Fatalf("return line should receive an allocation, got %s", enrichedItems[2].AllocatedShipping)
	}
	if !enrichedItems[2].ReturnAmount.Equal(dec("20")) {
		t.Fatalf("expected return amount 20, got %s", enrichedItems[2].ReturnAmount)
	}
	if !enrichedItems[0].ReturnAmount.IsZero() {
		t.Fatalf("sale line return amount should be 0, got %s", enrichedItems[0].ReturnAmount)
	}
}

func TestSingleItemOrderGetsFullCharge(t *testing.T) {
	p := newTestPipeline(t, 1)
	orders := []ledger.Order{plainOrder("o-1", "Germany")}
	items := []ledger.EnrichedOrderItem{enrichedItem(1, "o-1", "27", false)}

	enrichedOrders, enrichedItems := p.allocateShipping(orders, items)

	if !enrichedItems[0].AllocatedShipping.Equal(enrichedOrders[0].ShippingCostOrder) {
		t.Fatalf("sole item allocation %s != order shipping cost %s",
			enrichedItems[0].AllocatedShipping, enrichedOrders[0].ShippingCostOrder)
	}
}

func TestNetNegativeOrderIncursNoShipping(t *testing.T) {
	p := newTestPipeline(t, 1)
	orders := []ledger.Order{plainOrder("o-1", "France")}
	items := []ledger.EnrichedOrderItem{
		enrichedItem(1, "o-1", "10", false),
		enrichedItem(2, "o-1", "-40", true),
	}

	enrichedOrders, enrichedItems := p.allocateShipping(orders, items)

	if !enrichedOrders[0].ShippingCostOrder.IsZero() {
		t.Fatalf("expected zero shipping for net-negative order, got %s", enrichedOrders[0].ShippingCostOrder)
	}
	for _, it := range enrichedItems {
		if !it.AllocatedShipping.IsZero() {
			t.Fatalf("expected zero allocation, got %s", it.AllocatedShipping)
		}
	}
}

func TestZeroAbsoluteNetAllocatesZero(t *testing.T) {
	p := newTestPipeline(t, 1)
	orders := []ledger.Order{plainOrder("o-1", "France")}
	items := []ledger.EnrichedOrderItem{
		enrichedItem(1, "o-1", "0", false),
		enrichedItem(2, "o-1", "0", false),
	}

	enrichedOrders, enrichedItems := p.allocateShipping(orders, items)

	if !enrichedOrders[0].ShippingCostOrder.IsZero() {
		t.Fatalf("expected zero shipping cost, got %s", enrichedOrders[0].ShippingCostOrder)
	}
	for _, it := range enrichedItems {
		if !it.AllocatedShipping.IsZero() {
			t.Fatalf("zero denominator must allocate 0, got %s", it.AllocatedShipping)
		}
	}
}

func TestOffsettingItemsZeroShippingButNonzeroDenominator(t *testing.T) {
	p := newTestPipeline(t, 1)
	orders := []ledger.Order{plainOrder("o-1", "France")}
	items := []ledger.EnrichedOrderItem{
		enrichedItem(1, "o-1", "50", false),
		enrichedItem(2, "o-1", "-50", true),
	}

	enrichedOrders, enrichedItems := p.allocateShipping(orders, items)

	// order_net = 0 so the charge is 0, and both allocations follow.
	if !enrichedOrders[0].ShippingCostOrder.IsZero() {
		t.Fatalf("expected zero shipping cost, got %s", enrichedOrders[0].ShippingCostOrder)
	}
	for _, it := range enrichedItems {
		if !it.AllocatedShipping.IsZero() {
			t.Fatalf("expected zero allocation, got %s", it.AllocatedShipping)
		}
	}
}

func TestCountryRateBands(t *testing.T) {
	p := newTestPipeline(t, 1)
	orders := []ledger.Order{
		plainOrder("o-1", "Norway"),
		plainOrder("o-2", "France"),
		plainOrder("o-3", "Norway"),
	}

	rates := p.drawCountryRates(orders)

	norway := rates["Norway"]
	if norway.LessThan(dec("0.05")) || norway.GreaterThan(dec("0.12")) {
		t.Fatalf("Norway rate %s outside high band", norway)
	}
	france := rates["France"]
	if france.LessThan(dec("0.01")) || france.GreaterThan(dec("0.04")) {
		t.Fatalf("France rate %s outside base band", france)
	}

	// One draw per country: both Norway orders share the rate.
	enrichedOrders, _ := p.allocateShipping(orders, nil)
	if !enrichedOrders[0].ShipRate.Equal(enrichedOrders[2].ShipRate) {
		t.Fatal("orders in the same country must share one rate")
	}
}
