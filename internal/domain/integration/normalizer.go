package integration

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// The normalizer is a total function over raw payloads: malformed or
// missing fields degrade to documented defaults, they never error.
// Each marketplace has its own alias set; the first non-empty alias wins.

type productMapper func(fields map[string]any) BookRecord

type orderMapper func(fields map[string]any) OrderRecord

var productMappers = map[Marketplace]productMapper{
	MarketplaceWooCommerce: mapWooCommerceProduct,
	MarketplaceAmazon:      mapAmazonProduct,
	MarketplaceFlipkart:    mapFlipkartProduct,
}

var orderMappers = map[Marketplace]orderMapper{
	MarketplaceWooCommerce: mapWooCommerceOrder,
	MarketplaceAmazon:      mapAmazonOrder,
	MarketplaceFlipkart:    mapFlipkartOrder,
}

// NormalizeProduct maps a raw marketplace product onto the canonical
// book record, applying the source's alias set and shared defaults
func NormalizeProduct(raw RawProduct) BookRecord {
	mapper, ok := productMappers[raw.Source]
	if !ok {
		mapper = mapGenericProduct
	}
	rec := mapper(raw.Fields)
	rec.Source = raw.Source
	if rec.Title == "" {
		rec.Title = stringField(raw.Fields, "name", "title")
	}
	if rec.Description == "" {
		rec.Description = DefaultDescription
	}
	return rec
}

// NormalizeOrder maps a raw marketplace order onto the canonical order
// record, applying the source's alias set and shared defaults
func NormalizeOrder(raw RawOrder) OrderRecord {
	mapper, ok := orderMappers[raw.Source]
	if !ok {
		mapper = mapGenericOrder
	}
	rec := mapper(raw.Fields)
	rec.Source = raw.Source
	if rec.Status == "" {
		rec.Status = "completed"
	}
	if rec.Total == "" {
		rec.Total = "0"
	}
	if rec.Currency == "" {
		rec.Currency = "INR"
	}
	return rec
}

func mapWooCommerceProduct(f map[string]any) BookRecord {
	return BookRecord{
		ExternalID:  stringField(f, "id"),
		Title:       stringField(f, "name", "title"),
		Description: stripHTML(stringField(f, "description", "short_description")),
		Price:       decimalField(f, "price", "regular_price"),
		CoverURL:    firstNonEmpty(stringField(f, "cover"), firstImageSource(f), stringField(f, "image")),
		Categories:  categoryNames(f, "categories"),
		Approved:    true,
	}
}

func mapAmazonProduct(f map[string]any) BookRecord {
	cover := stringField(f, "cover", "image", "image_url")
	if cover == "" {
		cover = stringField(mapField(f, "small_image"), "url")
	}
	return BookRecord{
		ExternalID:  stringField(f, "asin", "id"),
		Title:       stringField(f, "title", "item_name", "name"),
		Description: stripHTML(stringField(f, "description", "product_description")),
		Price:       decimalField(f, "price", "list_price"),
		CoverURL:    cover,
		Categories:  categoryNames(f, "categories", "browse_nodes"),
		AuthorName:  stringField(f, "author", "brand"),
		ISBN:        stringField(f, "isbn"),
	}
}

func mapFlipkartProduct(f map[string]any) BookRecord {
	return BookRecord{
		ExternalID:  stringField(f, "product_id", "listing_id"),
		Title:       stringField(f, "product_name", "title"),
		Description: stripHTML(stringField(f, "description")),
		Price:       decimalField(f, "selling_price", "price", "mrp"),
		CoverURL:    firstListedURL(stringField(f, "image_urls", "image_url")),
		Categories:  categoryNames(f, "category"),
		AuthorName:  stringField(f, "brand", "author_name"),
		ISBN:        stringField(f, "isbn"),
	}
}

func mapGenericProduct(f map[string]any) BookRecord {
	return BookRecord{
		ExternalID:  stringField(f, "id"),
		Title:       stringField(f, "name", "title"),
		Description: stripHTML(stringField(f, "description")),
		Price:       decimalField(f, "price"),
		CoverURL:    firstNonEmpty(stringField(f, "cover"), firstImageSource(f), stringField(f, "image")),
		Categories:  categoryNames(f, "categories"),
		AuthorName:  stringField(f, "author"),
		ISBN:        stringField(f, "isbn"),
	}
}

func mapWooCommerceOrder(f map[string]any) OrderRecord {
	return OrderRecord{
		ExternalID:   stringField(f, "id"),
		Status:       stringField(f, "status"),
		Total:        stringField(f, "total"),
		Currency:     stringField(f, "currency"),
		DateCreated:  stringField(f, "date_created"),
		DateModified: stringField(f, "date_modified"),
		CustomerID:   stringField(f, "customer_id"),
		Lines:        lineRecords(f, "line_items"),
		Billing:      contactRecord(mapField(f, "billing")),
		Shipping:     contactRecord(mapField(f, "shipping")),
	}
}

func mapAmazonOrder(f map[string]any) OrderRecord {
	total := mapField(f, "OrderTotal")
	buyer := mapField(f, "BuyerInfo")
	var lines []OrderLineRecord
	for _, raw := range sliceField(f, "OrderItems") {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		qty := intField(item, "QuantityOrdered")
		if qty == 0 {
			qty = 1
		}
		price := stringField(mapField(item, "ItemPrice"), "Amount")
		lines = append(lines, OrderLineRecord{
			Name:     stringField(item, "Title"),
			Quantity: qty,
			Price:    price,
			BookID:   stringField(item, "ASIN"),
			Total:    parseDecimal(price).Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	return OrderRecord{
		ExternalID:   stringField(f, "AmazonOrderId", "amazon_order_id", "id"),
		Status:       strings.ToLower(stringField(f, "OrderStatus", "status")),
		Total:        stringField(total, "Amount", "amount"),
		Currency:     stringField(total, "CurrencyCode", "currency_code"),
		DateCreated:  stringField(f, "PurchaseDate"),
		DateModified: stringField(f, "LastUpdateDate", "PurchaseDate"),
		CustomerID:   stringField(buyer, "BuyerEmail"),
		Lines:        lines,
	}
}

func mapFlipkartOrder(f map[string]any) OrderRecord {
	qty := intField(f, "quantity")
	if qty == 0 {
		qty = 1
	}
	first, last, _ := strings.Cut(stringField(f, "customer_name"), " ")
	return OrderRecord{
		ExternalID:   stringField(f, "order_id", "order_item_id"),
		Status:       stringField(f, "order_status"),
		Total:        stringField(f, "order_total", "item_total"),
		DateCreated:  stringField(f, "order_date"),
		DateModified: stringField(f, "last_modified_date", "order_date"),
		CustomerID:   stringField(f, "customer_id", "buyer_id"),
		Lines: []OrderLineRecord{{
			Name:     stringField(f, "product_name", "title"),
			Quantity: qty,
			Price:    stringField(f, "unit_price", "selling_price"),
			BookID:   stringField(f, "product_id", "listing_id"),
			Total:    decimalField(f, "item_total", "order_total"),
		}},
		Billing: ContactRecord{
			FirstName: first,
			LastName:  last,
			Email:     stringField(f, "customer_email"),
			Phone:     stringField(f, "customer_phone"),
		},
		Shipping: ContactRecord{
			Address1: stringField(f, "shipping_address"),
			City:     stringField(f, "shipping_city"),
			State:    stringField(f, "shipping_state"),
			Postcode: stringField(f, "shipping_pincode"),
		},
	}
}

func mapGenericOrder(f map[string]any) OrderRecord {
	return OrderRecord{
		ExternalID:   stringField(f, "id", "order_id"),
		Status:       stringField(f, "status"),
		Total:        stringField(f, "total"),
		Currency:     stringField(f, "currency"),
		DateCreated:  stringField(f, "date_created"),
		DateModified: stringField(f, "date_modified"),
		CustomerID:   stringField(f, "customer_id"),
		Lines:        lineRecords(f, "line_items"),
		Billing:      contactRecord(mapField(f, "billing")),
		Shipping:     contactRecord(mapField(f, "shipping")),
	}
}

func lineRecords(f map[string]any, key string) []OrderLineRecord {
	var lines []OrderLineRecord
	for _, raw := range sliceField(f, key) {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		qty := intField(item, "quantity")
		if qty == 0 {
			qty = 1
		}
		lines = append(lines, OrderLineRecord{
			Name:     stringField(item, "name", "title"),
			Quantity: qty,
			Price:    stringField(item, "price", "unit_price"),
			BookID:   stringField(item, "product_id", "book_id"),
			Total:    decimalField(item, "total", "item_total"),
		})
	}
	return lines
}

func contactRecord(m map[string]any) ContactRecord {
	if m == nil {
		return ContactRecord{}
	}
	return ContactRecord{
		FirstName: stringField(m, "first_name"),
		LastName:  stringField(m, "last_name"),
		Email:     stringField(m, "email"),
		Phone:     stringField(m, "phone"),
		Address1:  stringField(m, "address_1", "address1"),
		City:      stringField(m, "city"),
		State:     stringField(m, "state"),
		Postcode:  stringField(m, "postcode", "pincode"),
		Country:   stringField(m, "country"),
	}
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}

// stringField returns the first alias present with a non-empty value,
// rendering numbers as their decimal string form
func stringField(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := fields[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case json.Number:
			return t.String()
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			return strconv.Itoa(t)
		case int64:
			return strconv.FormatInt(t, 10)
		case bool:
			return strconv.FormatBool(t)
		}
	}
	return ""
}

// decimalField returns the first alias that parses as a decimal, zero otherwise
func decimalField(fields map[string]any, keys ...string) decimal.Decimal {
	for _, key := range keys {
		v, ok := fields[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if d, err := decimal.NewFromString(strings.TrimSpace(t)); err == nil {
				return d
			}
		case json.Number:
			if d, err := decimal.NewFromString(t.String()); err == nil {
				return d
			}
		case float64:
			return decimal.NewFromFloat(t)
		case int:
			return decimal.NewFromInt(int64(t))
		case int64:
			return decimal.NewFromInt(t)
		case map[string]any:
			if amount := stringField(t, "amount", "Amount"); amount != "" {
				if d, err := decimal.NewFromString(amount); err == nil {
					return d
				}
			}
		}
	}
	return decimal.Zero
}

func intField(fields map[string]any, keys ...string) int {
	for _, key := range keys {
		v, ok := fields[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int(t)
		case int:
			return t
		case int64:
			return int(t)
		case json.Number:
			if n, err := t.Int64(); err == nil {
				return int(n)
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return n
			}
		}
	}
	return 0
}

func mapField(fields map[string]any, key string) map[string]any {
	if v, ok := fields[key].(map[string]any); ok {
		return v
	}
	return nil
}

func sliceField(fields map[string]any, key string) []any {
	if v, ok := fields[key].([]any); ok {
		return v
	}
	return nil
}

// firstImageSource extracts images[0].src from a WooCommerce-style payload
func firstImageSource(fields map[string]any) string {
	images := sliceField(fields, "images")
	if len(images) == 0 {
		return ""
	}
	if img, ok := images[0].(map[string]any); ok {
		return stringField(img, "src", "url")
	}
	if url, ok := images[0].(string); ok {
		return url
	}
	return ""
}

// firstListedURL returns the first entry of a comma-separated URL list
func firstListedURL(s string) string {
	first, _, _ := strings.Cut(s, ",")
	return strings.TrimSpace(first)
}

// categoryNames flattens category fields that arrive as object lists,
// string lists, or a single string
func categoryNames(fields map[string]any, keys ...string) []string {
	for _, key := range keys {
		v, ok := fields[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case []any:
			var names []string
			for _, entry := range t {
				switch e := entry.(type) {
				case map[string]any:
					if name := stringField(e, "name"); name != "" {
						names = append(names, name)
					}
				case string:
					if e != "" {
						names = append(names, e)
					}
				}
			}
			if len(names) > 0 {
				return names
			}
		case string:
			if t != "" {
				return []string{t}
			}
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
