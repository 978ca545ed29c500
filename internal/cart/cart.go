package cart

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"lineboost_console/pkg/siteconfig"
)

var (
	ErrOutOfStock = errors.New("สินค้าหมด")
	ErrNoPrice    = errors.New("สินค้านี้ยังไม่มีราคา")
	ErrNotInCart  = errors.New("ไม่พบสินค้าในตะกร้า")
)

// Item 购物车行。Stock 为 nil 表示不限库存
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Qty      int             `json:"qty"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Stock    *int            `json:"stock,omitempty"`
}

// Subtotal 单行小计
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// Cart 访客购物车，本身不加锁，由 Checkout 串行访问
type Cart struct {
	items []Item
}

// ParsePrice 去掉 ฿、逗号和空白后解析，无法解析返回 0
func ParsePrice(p siteconfig.Price) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		if r == '฿' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(p))
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Add 加入一件商品，已存在则数量加一 (有限库存时封顶)
func (c *Cart) Add(p siteconfig.Product) (Item, error) {
	if p.HasFiniteStock() && *p.Stock <= 0 {
		return Item{}, ErrOutOfStock
	}
	price := ParsePrice(p.Price)
	if !price.IsPositive() {
		return Item{}, ErrNoPrice
	}

	for i := range c.items {
		if c.items[i].ID != p.ID {
			continue
		}
		c.items[i].Stock = p.Stock
		c.items[i].Qty = clamp(c.items[i].Qty+1, p.Stock)
		return c.items[i], nil
	}

	item := Item{ID: p.ID, Name: p.Name, Price: price, Qty: 1, ImageURL: p.ImageURL, Stock: p.Stock}
	c.items = append(c.items, item)
	return item, nil
}

// UpdateQty 修改数量，小于 1 时移除，有限库存时封顶
func (c *Cart) UpdateQty(id string, qty int) error {
	for i := range c.items {
		if c.items[i].ID != id {
			continue
		}
		if qty < 1 {
			c.removeAt(i)
			return nil
		}
		next := clamp(qty, c.items[i].Stock)
		if next < 1 {
			c.removeAt(i)
			return nil
		}
		c.items[i].Qty = next
		return nil
	}
	return ErrNotInCart
}

// Remove 移除一行
func (c *Cart) Remove(id string) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.removeAt(i)
			return
		}
	}
}

// Items 返回副本
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Total 合计金额
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count 商品总件数
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.items {
		n += item.Qty
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}

func clamp(qty int, stock *int) int {
	if stock != nil && qty > *stock {
		return *stock
	}
	return qty
}
