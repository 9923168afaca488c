package configs

// Configurable is implemented by typed config values. ConfigExpr names the
// config path the value is read from.
type Configurable interface {
	ConfigExpr() string
}
