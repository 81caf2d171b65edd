// Package cities maps raw city names from the two upstream systems onto the
// canonical city taxonomy. Sales and inventory feeds use different raw
// vocabularies: sales splits out "Rural" sub-regions and NCR satellites that
// the inventory snapshot folds into their parent cities.
package cities

// Source identifies which upstream system a raw city name came from.
type Source string

const (
	Sales     Source = "sales"
	Inventory Source = "inventory"
)

var salesCityMapping = map[string]string{
	"Agra":                  "Agra",
	"Ahmedabad Rural":       "Ahmedabad-Gandhinagar",
	"Ahmedabad-Gandhinagar": "Ahmedabad-Gandhinagar",
	"Allahabad":             "Allahabad",
	"Bangalore":             "Bangalore",
	"Bangalore Rural":       "Bangalore",
	"Bhopal":                "Bhopal",
	"Bhubaneshwar-Cuttack":  "Bhubaneshwar-Cuttack",
	"Bhubaneswar Rural":     "Bhubaneshwar-Cuttack",
	"Chandigarh Tricity":    "Chandigarh Tricity",
	"Chennai":               "Chennai",
	"Chennai Rural":         "Chennai",
	"Coimbatore":            "Coimbatore",
	"DehraDun":              "DehraDun",
	"Gurgaon":               "Delhi",
	"Gurugram Rural":        "Delhi",
	"Guwahati":              "Guwahati",
	"Hyderabad":             "Hyderabad",
	"Hyderabad Rural":       "Hyderabad",
	"Indore":                "Indore",
	"Kochi":                 "Kochi",
	"Kochi Rural":           "Kochi",
	"Kolkata":               "Kolkata",
	"Kolkata Rural":         "Kolkata",
	"Kozhikode":             "Kozhikode",
	"Lucknow Rural":         "Lucknow-Kanpur",
	"Lucknow-Kanpur":        "Lucknow-Kanpur",
	"Mangaluru":             "Mangaluru",
	"Mumbai":                "Mumbai",
	"Mumbai Rural":          "Mumbai",
	"Mysore":                "Mysore",
	"Nagpur":                "Nagpur",
	"Nashik":                "Nashik",
	"Noida":                 "Noida",
	"Noida Rural":           "Noida",
	"Patna":                 "Patna",
	"Patna Rural":           "Patna",
	"Pune":                  "Pune",
	"Pune Rural":            "Pune",
	"Raipur":                "Raipur",
	"Ranchi":                "Ranchi",
	"Ranchi Rural":          "Ranchi",
	"Surat":                 "Surat",
	"Thiruvananthapuram":    "Thiruvananthapuram",
	"Vadodara":              "Vadodara",
	"Vijayawada-Guntur":     "Vijayawada-Guntur",
	"Visakhapatnam":         "Visakhapatnam",
	"Vizag Rural":           "Visakhapatnam",
}

var inventoryCityMapping = map[string]string{
	"Agra":                  "Agra",
	"Ahmedabad-Gandhinagar": "Ahmedabad-Gandhinagar",
	"Allahabad":             "Allahabad",
	"Bangalore":             "Bangalore",
	"Bhopal":                "Bhopal",
	"Bhubaneshwar-Cuttack":  "Bhubaneshwar-Cuttack",
	"Chandigarh Tricity":    "Chandigarh Tricity",
	"Chennai":               "Chennai",
	"Coimbatore":            "Coimbatore",
	"DehraDun":              "DehraDun",
	"Delhi":                 "Delhi",
	"Gurgaon":               "Delhi",
	"Guwahati":              "Guwahati",
	"Gwalior":               "Gwalior",
	"Hyderabad":             "Hyderabad",
	"Indore":                "Indore",
	"Kochi":                 "Kochi",
	"Kolkata":               "Kolkata",
	"Kozhikode":             "Kozhikode",
	"Lucknow-Kanpur":        "Lucknow-Kanpur",
	"Ludhiana":              "Ludhiana",
	"Mangaluru":             "Mangaluru",
	"Mumbai":                "Mumbai",
	"Mysore":                "Mysore",
	"Nagpur":                "Nagpur",
	"Nashik":                "Nashik",
	"Noida":                 "Noida",
	"Patna":                 "Patna",
	"Pune":                  "Pune",
	"Raipur":                "Raipur",
	"Ranchi":                "Ranchi",
	"Surat":                 "Surat",
	"Thiruvananthapuram":    "Thiruvananthapuram",
	"Vadodara":              "Vadodara",
	"Vijayawada-Guntur":     "Vijayawada-Guntur",
	"Visakhapatnam":         "Visakhapatnam",
}

// Normalize maps a raw city name from the given source onto the canonical
// taxonomy. Unmapped names pass through unchanged so new or renamed regions
// stay visible in reports instead of being dropped.
func Normalize(source Source, raw string) string {
	var table map[string]string
	switch source {
	case Sales:
		table = salesCityMapping
	case Inventory:
		table = inventoryCityMapping
	}

	if canonical, ok := table[raw]; ok {
		return canonical
	}

	return raw
}
