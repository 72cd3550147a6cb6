package domain

import "time"

// Product is a seller-owned catalogue item.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	SellerID    string    `json:"seller_id"`
	Version     int64     `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Pet is a seller-owned animal listing.
type Pet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	Breed     string    `json:"breed"`
	Age       int       `json:"age"`
	Price     float64   `json:"price"`
	SellerID  string    `json:"seller_id"`
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductPatch holds the fields of a partial product update; nil means
// "leave unchanged". Err carries a body decoding failure, which is reported
// only once the caller has been authorized for the update.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Err         error
}

// Apply mutates p with every non-nil field of the patch.
func (pp ProductPatch) Apply(p *Product) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Stock != nil {
		p.Stock = *pp.Stock
	}
}

// PetPatch holds the fields of a partial pet update. Err has the same
// meaning as in ProductPatch.
type PetPatch struct {
	Name    *string
	Species *string
	Breed   *string
	Age     *int
	Price   *float64
	Err     error
}

// Apply mutates p with every non-nil field of the patch.
func (pp PetPatch) Apply(p *Pet) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Species != nil {
		p.Species = *pp.Species
	}
	if pp.Breed != nil {
		p.Breed = *pp.Breed
	}
	if pp.Age != nil {
		p.Age = *pp.Age
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
}
