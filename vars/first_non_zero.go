package vars

// FirstNonZero picks the first value that is set, so settings can be
// layered as flag, environment, config file, default.
func FirstNonZero[T comparable](values ...T) (ret T) {
	for _, value := range values {
		if value != ret {
			return value
		}
	}
	return
}
