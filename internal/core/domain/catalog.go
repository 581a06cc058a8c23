package domain

// CarService is an entry of the service catalog (e.g. "Oil change").
type CarService struct {
	ID          int64   `json:"id" bson:"_id" validate:"required"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	ImageURL    string  `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
}
