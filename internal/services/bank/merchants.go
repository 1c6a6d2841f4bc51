package bank

import "fmt"

// ExternalRoutingAccount is the counterparty for payroll deposits coming
// from outside the bank. Transfers from it form the income subsequence.
const ExternalRoutingAccount = "9099791699"

// Merchant describes one known counterparty account.
type Merchant struct {
	Name     string
	Category string
}

// merchantDirectory maps demo-bank merchant account numbers to names and
// spending categories.
var merchantDirectory = map[string]Merchant{
	"5001000001": {"Starbucks", "Coffee & Cafes"},
	"5001000002": {"Blue Bottle Coffee", "Coffee & Cafes"},
	"5001000003": {"Peet's Coffee", "Coffee & Cafes"},

	"5002000001": {"Whole Foods Market", "Groceries"},
	"5002000002": {"Safeway", "Groceries"},
	"5002000003": {"Trader Joe's", "Groceries"},
	"5002000004": {"Costco Wholesale", "Groceries"},

	"5003000001": {"The French Laundry", "Fine Dining"},
	"5003000002": {"Chipotle Mexican Grill", "Fast Casual"},
	"5003000003": {"Tony's Little Star Pizza", "Casual Dining"},
	"5003000004": {"In-N-Out Burger", "Fast Food"},
	"5003000005": {"Sushi Nakazawa", "Fine Dining"},

	"5004000001": {"Shell", "Gas & Fuel"},
	"5004000002": {"Chevron", "Gas & Fuel"},
	"5004000003": {"76 Gas Station", "Gas & Fuel"},

	"5005000001": {"Amazon", "Online Retail"},
	"5005000002": {"Apple Store Online", "Electronics"},
	"5005000003": {"eBay", "Online Retail"},
	"5005000004": {"Etsy", "Online Retail"},

	"5006000001": {"Target", "Retail"},
	"5006000002": {"Best Buy", "Electronics"},
	"5006000003": {"CVS Pharmacy", "Health & Pharmacy"},
	"5006000004": {"Home Depot", "Home Improvement"},
	"5006000005": {"Macy's", "Department Store"},

	"5007000001": {"Netflix", "Entertainment"},
	"5007000002": {"Spotify", "Entertainment"},
	"5007000003": {"Amazon Prime", "Subscription Services"},
	"5007000004": {"Adobe Creative Cloud", "Software"},
	"5007000005": {"Disney+", "Entertainment"},

	"5008000001": {"Equinox Fitness", "Fitness & Health"},
	"5008000002": {"24 Hour Fitness", "Fitness & Health"},
	"5008000003": {"SoulCycle", "Fitness & Health"},

	"5009000001": {"Uber", "Transportation"},
	"5009000002": {"Lyft", "Transportation"},
	"5009000003": {"Bay Area Rapid Transit", "Transportation"},

	"5010000001": {"United Airlines", "Travel"},
	"5010000002": {"Airbnb", "Travel"},
	"5010000003": {"Marriott Hotels", "Travel"},

	"5011000001": {"Pacific Gas & Electric", "Utilities"},
	"5011000002": {"Comcast Xfinity", "Utilities"},
	"5011000003": {"AT&T Wireless", "Utilities"},
	"5011000004": {"San Francisco Water", "Utilities"},
}

// LookupMerchant resolves an account number to a merchant. Unknown accounts
// get a synthetic name and the "Other" category.
func LookupMerchant(account string) Merchant {
	if m, ok := merchantDirectory[account]; ok {
		return m
	}
	return Merchant{
		Name:     fmt.Sprintf("Unknown Merchant (%s)", account),
		Category: "Other",
	}
}
