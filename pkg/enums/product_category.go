package enums

import "fmt"

// MainCategory represents the top-level catalog split.
type MainCategory string

const (
	MainCategoryWireless MainCategory = "wireless"
	MainCategoryWired    MainCategory = "wired"
)

var validMainCategories = []MainCategory{
	MainCategoryWireless,
	MainCategoryWired,
}

// String implements fmt.Stringer.
func (c MainCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known MainCategory.
func (c MainCategory) IsValid() bool {
	for _, candidate := range validMainCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseMainCategory converts raw input into a MainCategory.
func ParseMainCategory(value string) (MainCategory, error) {
	for _, candidate := range validMainCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid main category %q", value)
}

// SubCategory represents the product family inside a main category.
type SubCategory string

const (
	SubCategoryTWS                SubCategory = "tws"
	SubCategoryWirelessEarphones  SubCategory = "wireless-earphones"
	SubCategoryWirelessHeadphones SubCategory = "wireless-headphones"
	SubCategoryWirelessSpeakers   SubCategory = "wireless-speakers"
	SubCategoryWiredEarphones     SubCategory = "wired-earphones"
	SubCategoryWiredHeadphones    SubCategory = "wired-headphones"
)

var validSubCategories = []SubCategory{
	SubCategoryTWS,
	SubCategoryWirelessEarphones,
	SubCategoryWirelessHeadphones,
	SubCategoryWirelessSpeakers,
	SubCategoryWiredEarphones,
	SubCategoryWiredHeadphones,
}

// String implements fmt.Stringer.
func (c SubCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known SubCategory.
func (c SubCategory) IsValid() bool {
	for _, candidate := range validSubCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseSubCategory converts raw input into a SubCategory.
func ParseSubCategory(value string) (SubCategory, error) {
	for _, candidate := range validSubCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sub category %q", value)
}
