package stock

// Record is the stock level reported for a single product at lookup time.
type Record struct {
	ProductId string `json:"productId"`
	Quantity  int32  `json:"quantity"`
}

// SeedData is loaded into every store at startup and never changes afterwards.
var SeedData = map[string]int32{
	"prod1": 100,
	"prod2": 50,
}

func NewRecord(productId string, quantity int32) Record {
	return Record{ProductId: productId, Quantity: quantity}
}

// Seed returns a fresh copy of SeedData so callers can't alter the shared table.
func Seed() map[string]int32 {
	seed := make(map[string]int32, len(SeedData))
	for productId, quantity := range SeedData {
		seed[productId] = quantity
	}
	return seed
}
