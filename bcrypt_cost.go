//go:build !race

package accounts

// Matches the configuration default (AUTH_BCRYPT_COST) and the bcrypt
// library default.
func passwordHashCost() int {
	return 10
}
