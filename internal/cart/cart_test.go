package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"lineboost_console/pkg/siteconfig"
)

func stock(n int) *int {
	return &n
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   siteconfig.Price
		want string
	}{
		{in: "100", want: "100"},
		{in: "฿1,290", want: "1290"},
		{in: " 1 290.50 ", want: "1290.5"},
		{in: "ติดต่อร้าน", want: "0"},
		{in: "", want: "0"},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePrice(tt.in).String())
		})
	}
}

func TestAdd_SameProductIncrements(t *testing.T) {
	var c Cart
	p := siteconfig.Product{ID: "p1", Name: "Tea", Price: "100"}

	_, err := c.Add(p)
	assert.NoError(t, err)
	_, err = c.Add(p)
	assert.NoError(t, err)

	items := c.Items()
	if assert.Len(t, items, 1) {
		assert.Equal(t, "p1", items[0].ID)
		assert.Equal(t, 2, items[0].Qty)
		assert.True(t, decimal.NewFromInt(100).Equal(items[0].Price))
	}
	assert.Equal(t, "200", c.Total().String())
}

func TestAdd_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		product siteconfig.Product
		wantErr error
	}{
		{name: "库存为 0", product: siteconfig.Product{ID: "p1", Price: "100", Stock: stock(0)}, wantErr: ErrOutOfStock},
		{name: "库存为负", product: siteconfig.Product{ID: "p1", Price: "100", Stock: stock(-2)}, wantErr: ErrOutOfStock},
		{name: "没有价格", product: siteconfig.Product{ID: "p2"}, wantErr: ErrNoPrice},
		{name: "价格不是数字", product: siteconfig.Product{ID: "p3", Price: "สอบถาม"}, wantErr: ErrNoPrice},
		{name: "价格为负", product: siteconfig.Product{ID: "p4", Price: "-5"}, wantErr: ErrNoPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cart
			_, err := c.Add(tt.product)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, c.IsEmpty())
		})
	}
}

func TestAdd_ClampsToStock(t *testing.T) {
	var c Cart
	p := siteconfig.Product{ID: "p1", Price: "50", Stock: stock(2)}

	for i := 0; i < 5; i++ {
		_, _ = c.Add(p)
	}

	assert.Equal(t, 2, c.Items()[0].Qty)
}

func TestUpdateQty(t *testing.T) {
	var c Cart
	_, _ = c.Add(siteconfig.Product{ID: "limited", Price: "10", Stock: stock(3)})
	_, _ = c.Add(siteconfig.Product{ID: "open", Price: "20"})

	// 超过库存封顶
	assert.NoError(t, c.UpdateQty("limited", 10))
	assert.Equal(t, 3, c.Items()[0].Qty)

	// 无限库存不封顶
	assert.NoError(t, c.UpdateQty("open", 40))
	assert.Equal(t, 40, c.Items()[1].Qty)

	// 0 移除
	assert.NoError(t, c.UpdateQty("limited", 0))
	items := c.Items()
	if assert.Len(t, items, 1) {
		assert.Equal(t, "open", items[0].ID)
	}

	assert.ErrorIs(t, c.UpdateQty("missing", 1), ErrNotInCart)
}

func TestRemoveAndClear(t *testing.T) {
	var c Cart
	_, _ = c.Add(siteconfig.Product{ID: "a", Price: "1"})
	_, _ = c.Add(siteconfig.Product{ID: "b", Price: "2"})

	c.Remove("a")
	assert.Equal(t, 1, c.Count())

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
}
