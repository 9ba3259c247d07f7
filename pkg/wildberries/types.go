package wildberries

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Addin type labels as the Content API ships them.
const (
	addinName        = "Наименование"
	addinDescription = "Описание"
	addinPhoto       = "Фото"
	addinRetailPrice = "Розничная цена"
)

// Card is one catalog card from POST /card/list. The upstream id arrives as
// either a string or a bare number depending on the payload generation. Raw
// keeps the untouched payload bytes for checksumming and storage.
type Card struct {
	ID                 json.Number    `json:"id"`
	SupplierVendorCode string         `json:"supplierVendorCode"`
	CreatedAt          string         `json:"createdAt"`
	Addin              []Addin        `json:"addin"`
	Nomenclatures      []Nomenclature `json:"nomenclatures"`

	Raw json.RawMessage `json:"-"`
}

type Nomenclature struct {
	VendorCode string      `json:"vendorCode"`
	NmID       int64       `json:"nmId"`
	Addin      []Addin     `json:"addin"`
	Variations []Variation `json:"variations"`
}

type Variation struct {
	ChrtID int64   `json:"chrtId"`
	Addin  []Addin `json:"addin"`
}

type Addin struct {
	Type   string       `json:"type"`
	Params []AddinParam `json:"params"`
}

type AddinParam struct {
	Value string      `json:"value"`
	Count json.Number `json:"count"`
}

// Name returns the card title addin, truncated the way the marketplace UI
// stores it. Empty when the addin is absent.
func (c Card) Name() string {
	for _, a := range c.Addin {
		if a.Type == addinName && len(a.Params) > 0 {
			name := a.Params[0].Value
			if len(name) > 256 {
				name = name[:256]
			}
			return name
		}
	}
	return ""
}

// Description returns the card description addin, or "".
func (c Card) Description() string {
	for _, a := range c.Addin {
		if a.Type == addinDescription && len(a.Params) > 0 {
			return a.Params[0].Value
		}
	}
	return ""
}

// Images returns the photo URLs of a nomenclature in payload order.
func (n Nomenclature) Images() []string {
	for _, a := range n.Addin {
		if a.Type == addinPhoto {
			urls := make([]string, 0, len(a.Params))
			for _, p := range a.Params {
				urls = append(urls, p.Value)
			}
			return urls
		}
	}
	return nil
}

// Price returns the retail price from the first variation carrying one.
func (n Nomenclature) Price() decimal.Decimal {
	for _, v := range n.Variations {
		for _, a := range v.Addin {
			if a.Type == addinRetailPrice && len(a.Params) > 0 {
				if price, err := decimal.NewFromString(a.Params[0].Count.String()); err == nil {
					return price
				}
			}
		}
	}
	return decimal.Zero
}

// Order is one FBS order from GET /api/v1/orders.
type Order struct {
	OrderID     json.Number `json:"order_id"`
	DateCreated string      `json:"date_created"`
	WBWhID      int64       `json:"wb_wh_id"`
	Items       []OrderLine `json:"items"`
}

// OrderLine is one line of an FBS order. TotalPrice is in copecks.
type OrderLine struct {
	ChrtID     int64       `json:"chrt_id"`
	Status     int64       `json:"status"`
	Rid        json.Number `json:"rid"`
	TotalPrice int64       `json:"total_price"`
	Quantity   int64       `json:"quantity"`
}

// Sale is one flat row of the financial report, keyed by rid.
type Sale struct {
	Rid      json.Number `json:"rid"`
	NmID     int64       `json:"nm_id"`
	TsName   string      `json:"ts_name"`
	Quantity int64       `json:"quantity"`

	Financials
}

// Financials are the report columns summed across duplicate rows.
type Financials struct {
	NDS                      decimal.Decimal `json:"nds"`
	CostAmount               decimal.Decimal `json:"cost_amount"`
	RetailPrice              decimal.Decimal `json:"retail_price"`
	RetailAmount             decimal.Decimal `json:"retail_amount"`
	RetailCommission         decimal.Decimal `json:"retail_commission"`
	SalePercent              decimal.Decimal `json:"sale_percent"`
	CommissionPercent        decimal.Decimal `json:"commission_percent"`
	CustomerReward           decimal.Decimal `json:"customer_reward"`
	SupplierReward           decimal.Decimal `json:"supplier_reward"`
	RetailPriceWithdiscRub   decimal.Decimal `json:"retail_price_withdisc_rub"`
	ForPay                   decimal.Decimal `json:"for_pay"`
	ForPayNDS                decimal.Decimal `json:"for_pay_nds"`
	DeliveryAmount           decimal.Decimal `json:"delivery_amount"`
	ReturnAmount             decimal.Decimal `json:"return_amount"`
	DeliveryRub              decimal.Decimal `json:"delivery_rub"`
	ProductDiscountForReport decimal.Decimal `json:"product_discount_for_report"`
	SupplierPromo            decimal.Decimal `json:"supplier_promo"`
	SupplierSPP              decimal.Decimal `json:"supplier_spp"`
}

// Add accumulates another row's columns into f.
func (f *Financials) Add(other Financials) {
	f.NDS = f.NDS.Add(other.NDS)
	f.CostAmount = f.CostAmount.Add(other.CostAmount)
	f.RetailPrice = f.RetailPrice.Add(other.RetailPrice)
	f.RetailAmount = f.RetailAmount.Add(other.RetailAmount)
	f.RetailCommission = f.RetailCommission.Add(other.RetailCommission)
	f.SalePercent = f.SalePercent.Add(other.SalePercent)
	f.CommissionPercent = f.CommissionPercent.Add(other.CommissionPercent)
	f.CustomerReward = f.CustomerReward.Add(other.CustomerReward)
	f.SupplierReward = f.SupplierReward.Add(other.SupplierReward)
	f.RetailPriceWithdiscRub = f.RetailPriceWithdiscRub.Add(other.RetailPriceWithdiscRub)
	f.ForPay = f.ForPay.Add(other.ForPay)
	f.ForPayNDS = f.ForPayNDS.Add(other.ForPayNDS)
	f.DeliveryAmount = f.DeliveryAmount.Add(other.DeliveryAmount)
	f.ReturnAmount = f.ReturnAmount.Add(other.ReturnAmount)
	f.DeliveryRub = f.DeliveryRub.Add(other.DeliveryRub)
	f.ProductDiscountForReport = f.ProductDiscountForReport.Add(other.ProductDiscountForReport)
	f.SupplierPromo = f.SupplierPromo.Add(other.SupplierPromo)
	f.SupplierSPP = f.SupplierSPP.Add(other.SupplierSPP)
}

// OrderStatus is the resolved shipment status of one order.
type OrderStatus struct {
	OrderID int64
	Status  int64
}

type supplyStatus struct {
	OrderID json.Number   `json:"order_id"`
	Items   []statusEvent `json:"items"`
}

type statusEvent struct {
	Status int64     `json:"status"`
	Date   time.Time `json:"date"`
}
