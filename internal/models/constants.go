package models

// File permissions
const (
	PermissionScenarioFile = 0600
	PermissionDirectory    = 0750
)
