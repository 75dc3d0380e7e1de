package migrate

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEmbedded(t *testing.T, name string) string {
	t.Helper()
	raw, err := migrationsFS.ReadFile("sql/" + name)
	require.NoError(t, err)
	return string(raw)
}

// tableBlock extracts the body of one CREATE TABLE statement.
func tableBlock(t *testing.T, ddl, table string) string {
	t.Helper()
	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ` + table + ` \((.*?)\n\);`)
	m := re.FindStringSubmatch(ddl)
	require.NotNil(t, m, "no CREATE TABLE for %s", table)
	return m[1]
}

func assertColumns(t *testing.T, block, table string, columns []string) {
	t.Helper()
	for _, col := range columns {
		assert.Contains(t, block, "\n    "+col+" ", "%s is missing column %s", table, col)
	}
}

// The repositories name columns in raw SQL; every one of them must exist
// in the schema the migrations create.
func TestSchemaCoversRepositoryColumns(t *testing.T) {
	ddl := readEmbedded(t, "0001_catalog_and_carts.up.sql")

	t.Run("CartItems", func(t *testing.T) {
		block := tableBlock(t, ddl, "cart_items")
		// fetchCart selects these and orders by created_at.
		assertColumns(t, block, "cart_items",
			[]string{"id", "cart_id", "product_id", "color", "quantity", "price", "created_at"})
	})

	t.Run("Carts", func(t *testing.T) {
		block := tableBlock(t, ddl, "carts")
		assertColumns(t, block, "carts",
			[]string{"id", "user_id", "total_cart_price", "total_price_after_discount", "created_at", "updated_at"})
	})

	t.Run("Products", func(t *testing.T) {
		block := tableBlock(t, ddl, "products")
		assertColumns(t, block, "products",
			[]string{"id", "name", "price", "quantity", "sold", "created_at", "updated_at"})
	})

	t.Run("Coupons", func(t *testing.T) {
		block := tableBlock(t, ddl, "coupons")
		assertColumns(t, block, "coupons", []string{"id", "name", "expire", "discount"})
	})

	orders := readEmbedded(t, "0002_orders_and_webhooks.up.sql")

	t.Run("Orders", func(t *testing.T) {
		block := tableBlock(t, orders, "orders")
		assertColumns(t, block, "orders", []string{
			"id", "user_id", "session_id",
			"ship_details", "ship_city", "ship_phone", "ship_postal_code",
			"tax_price", "shipping_price", "total_order_price",
			"payment_method", "is_paid", "paid_at", "is_delivered", "delivered_at",
			"created_at", "updated_at",
		})
	})

	t.Run("OrderItems", func(t *testing.T) {
		block := tableBlock(t, orders, "order_items")
		assertColumns(t, block, "order_items",
			[]string{"id", "order_id", "product_id", "color", "quantity", "price"})
	})

	t.Run("WebhookEvents", func(t *testing.T) {
		block := tableBlock(t, orders, "webhook_events")
		assertColumns(t, block, "webhook_events", []string{"id", "received_at"})
	})
}

func TestEveryMigrationHasDown(t *testing.T) {
	entries, err := migrationsFS.ReadDir("sql")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	assert.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}
