package icons

const (
	// Store Icons (Nerd Font)
	IconPostgres = "\ue76e"
	IconMySQL    = "\ue704"
	IconSQLite   = "\U000f01bc"
	IconMemory   = "\U000f035b"

	// Utility Icons
	IconSuccess = "✓"
	IconError   = "⚠"
	IconBullet  = "•"
)

// GetStoreIcon returns the glyph for a store type.
func GetStoreIcon(storeType string) string {
	switch storeType {
	case "postgres", "postgresql":
		return IconPostgres
	case "mysql":
		return IconMySQL
	case "", "sqlite":
		return IconSQLite
	default:
		return IconMemory
	}
}
