package models

// ModelRegistry lists the models created by AutoMigrate in development.
var ModelRegistry = []interface{}{
	&WaitlistEntry{},
	&WaitlistBackup{},
}

// FallbackModelRegistry lists the models the fallback database needs.
var FallbackModelRegistry = []interface{}{
	&WaitlistBackup{},
}
