// Package constants holds identifiers shared between configuration and infrastructure.
package constants

const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

const (
	MailProviderSMTP = "smtp"
	MailProviderLog  = "log"
)

// Pub/Sub message attribute carrying the event type
const EventTypeAttribute = "event_type"
