package models

// Category is the fixed product category set offered at the till.
type Category string

const (
	CategoryPhonesNew          Category = "Phones - New"
	CategoryPhonesUsed         Category = "Phones - Used"
	CategoryScreenProtectors   Category = "Screen Protectors"
	CategoryPhoneCases         Category = "Phone Cases"
	CategoryChargersCables     Category = "Chargers & Cables"
	CategoryBatteries          Category = "Batteries"
	CategoryMemoryCards        Category = "Memory Cards"
	CategoryScreenRepair       Category = "Screen Repair"
	CategoryBatteryReplacement Category = "Battery Replacement"
	CategoryOtherRepairs       Category = "Other Repairs"
	CategoryAccessories        Category = "Accessories"
	CategoryOther              Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryPhonesNew,
	CategoryPhonesUsed,
	CategoryScreenProtectors,
	CategoryPhoneCases,
	CategoryChargersCables,
	CategoryBatteries,
	CategoryMemoryCards,
	CategoryScreenRepair,
	CategoryBatteryReplacement,
	CategoryOtherRepairs,
	CategoryAccessories,
	CategoryOther,
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }
