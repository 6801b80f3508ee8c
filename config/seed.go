package config

import (
	"log"

	"local-butler-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// seedProviders is the built-in catalog of local merchants butlers pick
// up from. The list is upserted by Ref so redeploys keep rows stable.
var seedProviders = []models.Provider{
	{Ref: "weis-markets", Name: "Weis Markets", Category: models.CategoryGrocery,
		Instructions: "Place your order directly with Weis Markets using your own account. Select store pick-up and specify the date and time.",
		OrderURL:     "https://www.weismarkets.com/"},
	{Ref: "safeway", Name: "SafeWay", Category: models.CategoryGrocery,
		Instructions: "Place your order directly with Safeway using your own account. Select store pick-up and specify the date and time.",
		OrderURL:     "https://www.safeway.com/"},
	{Ref: "commissary", Name: "Commissary", Category: models.CategoryGrocery,
		Instructions: "Place your order directly with the Commissary using your own account. Select store pick-up and specify the date and time.",
		OrderURL:     "https://shop.commissaries.com/"},
	{Ref: "food-lion", Name: "Food Lion", Category: models.CategoryGrocery,
		Instructions: "Place your order directly with Food Lion using your own account. Select store pick-up and specify the date and time.",
		OrderURL:     "https://shop.foodlion.com/"},
	{Ref: "the-hideaway", Name: "The Hideaway", Category: models.CategoryMeal,
		Instructions: "Place your order directly with The Hideaway using their website or app. Select pick-up and specify the date and time.",
		OrderURL:     "https://order.toasttab.com/online/hideawayodenton"},
	{Ref: "ruths-chris", Name: "Ruth's Chris Steak House", Category: models.CategoryMeal,
		Instructions: "Place your order directly with Ruth's Chris Steak House using their website or app. Select pick-up and specify the date and time.",
		OrderURL:     "https://order.ruthschris.com/"},
	{Ref: "baltimore-coffee-tea", Name: "Baltimore Coffee & Tea Company", Category: models.CategoryMeal,
		Instructions: "Call Baltimore Coffee & Tea Company to place your order; no online ordering is available.",
		OrderURL:     "https://www.baltcoffee.com/"},
	{Ref: "all-american-steakhouse", Name: "The All American Steakhouse", Category: models.CategoryMeal,
		Instructions: "Place your order directly with The All American Steakhouse using their website or app, with the pick-up date and time.",
		OrderURL:     "https://order.theallamericansteakhouse.com/menu/odenton"},
	{Ref: "jersey-mikes", Name: "Jersey Mike's Subs", Category: models.CategoryMeal,
		Instructions: "Place your order directly with Jersey Mike's Subs using their website or app, with the pick-up date and time.",
		OrderURL:     "https://www.jerseymikes.com/menu"},
	{Ref: "brusters", Name: "Bruster's Real Ice Cream", Category: models.CategoryMeal,
		Instructions: "Place your order directly with Bruster's Real Ice Cream using their website or app, with the pick-up date and time.",
		OrderURL:     "https://brustersonline.com/"},
	{Ref: "luiginos", Name: "Luigino's", Category: models.CategoryMeal,
		Instructions: "Place your order directly with Luigino's using their website or app, with the pick-up date and time.",
		OrderURL:     "https://order.yourmenu.com/luiginos"},
	{Ref: "pho-5up", Name: "PHO 5UP ODENTON", Category: models.CategoryMeal,
		Instructions: "Place your order directly with PHO 5UP ODENTON using their website or app, with the pick-up date and time.",
		OrderURL:     "https://www.clover.com/online-ordering/pho-5up-odenton"},
	{Ref: "dunkin", Name: "Dunkin", Category: models.CategoryMeal,
		Instructions: "Place your order directly with Dunkin' using their app, with the pick-up date and time.",
		OrderURL:     "https://www.dunkindonuts.com/en/mobile-app"},
	{Ref: "baskin-robbins", Name: "Baskin-Robbins", Category: models.CategoryMeal,
		Instructions: "Place your order directly with Baskin-Robbins using their website or app, with the pick-up date and time.",
		OrderURL:     "https://order.baskinrobbins.com/"},
	{Ref: "laundry-service", Name: "Laundry Pickup & Delivery", Category: models.CategoryLaundry,
		Instructions: "Schedule a pickup slot; your butler collects, cleans and returns your laundry."},
	{Ref: "errand-service", Name: "General Errands", Category: models.CategoryErrand,
		Instructions: "Shopping, mailing packages or picking up prescriptions; describe the errand in the order notes."},
	{Ref: "pharmacy-service", Name: "Pharmacy Pickup", Category: models.CategoryPharmacy,
		Instructions: "Order prescriptions and over-the-counter products from local pharmacies for delivery."},
	{Ref: "pet-care-service", Name: "Pet Care", Category: models.CategoryPetCare,
		Instructions: "Pet sitting, grooming and walking services; note your pet's needs in the order notes."},
	{Ref: "car-wash-service", Name: "Car Wash & Detailing", Category: models.CategoryCarWash,
		Instructions: "Schedule a car wash or detailing slot; note the vehicle and location in the order notes."},
}

// SeedProviders upserts the built-in provider catalog.
func SeedProviders(db *gorm.DB) error {
	for _, p := range seedProviders {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ref"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "instructions", "order_url"}),
		}).Create(&p).Error
		if err != nil {
			return err
		}
	}
	log.Printf("Provider catalog seeded (%d providers)", len(seedProviders))
	return nil
}
