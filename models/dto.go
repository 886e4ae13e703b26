package models

// CustomizationRequest replays a customization session. Selections are applied
// in order, so duplicates count as extra units of the same component.
type CustomizationRequest struct {
	Size       string              `json:"size" form:"size"`
	Base       string              `json:"base" form:"base"`
	Selections map[string][]string `json:"selections" form:"selections"`
}

type AddLineRequest struct {
	CustomizationRequest
	ProductID int `json:"product_id" binding:"required,min=1"`
	Quantity  int `json:"quantity" binding:"omitempty,min=1,max=50"`
}

type UpdateLineRequest struct {
	Quantity int `json:"quantity" binding:"min=0,max=50"`
}

type CheckoutRequest struct {
	Name       string `json:"name" binding:"required,min=2"`
	Phone      string `json:"phone" binding:"omitempty"`
	PickupDate string `json:"pickup_date" binding:"omitempty,datetime=2006-01-02"`
	Note       string `json:"note" binding:"omitempty,max=500"`
	Channel    string `json:"channel" binding:"omitempty,oneof=whatsapp instagram snapchat"`
}

type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type ProductFilter struct {
	Category string
	Page     int
	Limit    int
}
