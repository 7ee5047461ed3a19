package catalog

import (
	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// SeedStores returns the sample stores. All IDs sit in the remote range (1-12).
func SeedStores() []models.Store {
	return []models.Store{
		{ID: 1, Name: "Fresh Mart", Description: "Farm-fresh produce, dairy and pantry staples delivered daily.", Category: "Grocery"},
		{ID: 2, Name: "Corner Bakery", Description: "Artisan breads, pastries and cakes baked every morning.", Category: "Bakery"},
		{ID: 3, Name: "Green Leaf Cafe", Description: "Specialty coffee, teas and light bites.", Category: "Cafe"},
		{ID: 4, Name: "Home Essentials", Description: "Cleaning supplies, kitchenware and everyday household items.", Category: "Household"},
		{ID: 5, Name: "Sports Hub", Description: "Gear and apparel for every sport and fitness level.", Category: "Sporting Goods"},
		{ID: 6, Name: "Bloom Florist", Description: "Fresh bouquets and potted plants for every occasion.", Category: "Florist"},
		{ID: 7, Name: "Toy Kingdom", Description: "A magical world of toys and games for kids of all ages.", Category: "Toy Store"},
		{ID: 8, Name: "The Book Nook", Description: "Curated selection of bestsellers, classics, and hidden gems.", Category: "Bookstore"},
		{ID: 9, Name: "MediCare Pharmacy", Description: "Vitamins, wellness products, and healthcare essentials.", Category: "Pharmacy"},
		{ID: 10, Name: "Paws & Claws", Description: "Food, toys, accessories, and grooming supplies for pets.", Category: "Pet Store"},
		{ID: 11, Name: "TechZone", Description: "Latest gadgets, electronics, and smart home devices.", Category: "Electronics"},
		{ID: 12, Name: "Fashion Forward", Description: "Trendy clothing and accessories for every style.", Category: "Clothing"},
	}
}

func product(id, storeID uint64, name, description string, cents int64) models.Product {
	return models.Product{
		ID:          id,
		StoreID:     storeID,
		Name:        name,
		Description: description,
		Price:       decimal.NewFromInt(cents),
	}
}

// SeedProducts returns the sample products. Prices are in cents.
func SeedProducts() []models.Product {
	return []models.Product{
		product(101, 1, "Organic Bananas", "A bunch of ripe organic bananas.", 199),
		product(102, 1, "Whole Milk 1L", "Fresh whole milk from local farms.", 149),
		product(201, 2, "Sourdough Loaf", "Slow-fermented sourdough with a crisp crust.", 549),
		product(202, 2, "Butter Croissant", "Flaky all-butter croissant.", 299),
		product(301, 3, "Cold Brew", "Smooth 18-hour cold brew coffee.", 450),
		product(401, 4, "Dish Soap", "Plant-based dish soap, 500ml.", 399),
		product(501, 5, "Yoga Mat", "Non-slip 6mm yoga mat.", 2999),
		product(601, 6, "Rose Bouquet", "A dozen long-stem red roses.", 3999),
		product(701, 7, "Classic LEGO City Set", "Build an entire city block with 520 pieces.", 4999),
		product(702, 7, "Stuffed Panda Bear", "Super soft and huggable giant panda plush toy.", 2499),
		product(801, 8, "The Great Gatsby", "F. Scott Fitzgerald's classic novel, paperback.", 1299),
		product(901, 9, "Vitamin D3", "Daily vitamin D3 supplement, 90 softgels.", 1599),
		product(1001, 10, "Grain-Free Dog Food", "Premium grain-free kibble, 5kg.", 4599),
		product(1101, 11, "Wireless Earbuds", "Bluetooth earbuds with charging case.", 7999),
		product(1201, 12, "Denim Jacket", "Classic fit denim jacket.", 5999),
	}
}

// SeedReviews returns the sample reviews.
func SeedReviews() []models.Review {
	return []models.Review{
		{ProductID: 101, Comment: "Always fresh.", Rating: 5, Reviewer: "maria"},
		{ProductID: 201, Comment: "Best sourdough in town.", Rating: 5, Reviewer: "tom"},
		{ProductID: 201, Comment: "A bit too sour for me.", Rating: 3, Reviewer: "lee"},
		{ProductID: 701, Comment: "Kept my kids busy all weekend.", Rating: 4, Reviewer: "sam"},
		{ProductID: 1101, Comment: "Great sound for the price.", Rating: 4, Reviewer: "ana"},
	}
}
