package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// The service is expected to run with its settings provided as environment
// variables (container env for the pod, shell env locally). The workbook
// lives in OneDrive/SharePoint and is reached through the Microsoft Graph API
// with an app-only (client credentials) identity.

type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	IsLocalDev bool   `mapstructure:"LOCAL_DEV"`

	// Workbook backend selection: "graph" or "excel" (local .xlsx file).
	StoreBackend      string `mapstructure:"STORE_BACKEND"`
	LocalWorkbookPath string `mapstructure:"LOCAL_WORKBOOK_PATH"`

	GraphBaseURL      string `mapstructure:"GRAPH_BASE_URL"`
	GraphTenantID     string `mapstructure:"GRAPH_TENANT_ID"`
	GraphClientID     string `mapstructure:"GRAPH_CLIENT_ID"`
	GraphClientSecret string `mapstructure:"GRAPH_CLIENT_SECRET"`
	GraphDriveID      string `mapstructure:"GRAPH_DRIVE_ID"`
	GraphWorkbookID   string `mapstructure:"GRAPH_WORKBOOK_ID"`

	CheckinTable   string `mapstructure:"CHECKIN_TABLE"`
	CheckoutTable  string `mapstructure:"CHECKOUT_TABLE"`
	LeaveTable     string `mapstructure:"LEAVE_TABLE"`
	UserTable      string `mapstructure:"USER_TABLE"`
	HolidayTable   string `mapstructure:"HOLIDAY_TABLE"`
	WeeklyOffTable string `mapstructure:"WEEKLY_OFF_TABLE"`
	DayOffTable    string `mapstructure:"DAY_OFF_TABLE"`

	GeofenceMaxKm     float64 `mapstructure:"GEOFENCE_MAX_KM"`
	HeaderCacheTTLSec int     `mapstructure:"HEADER_CACHE_TTL_SEC"`

	AWSRegion         string `mapstructure:"AWS_REGION"`
	AWSEndpoint       string `mapstructure:"AWS_ENDPOINT"`
	NotifySQSQueueURL string `mapstructure:"NOTIFY_SQS_QUEUE_URL"`
	EmailSender       string `mapstructure:"EMAIL_SENDER"`

	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOCAL_DEV", false)

	viper.SetDefault("STORE_BACKEND", "graph")
	viper.SetDefault("LOCAL_WORKBOOK_PATH", "fieldops.xlsx")

	viper.SetDefault("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0")
	viper.SetDefault("GRAPH_TENANT_ID", "")
	viper.SetDefault("GRAPH_CLIENT_ID", "")
	viper.SetDefault("GRAPH_CLIENT_SECRET", "")
	viper.SetDefault("GRAPH_DRIVE_ID", "")
	viper.SetDefault("GRAPH_WORKBOOK_ID", "")

	viper.SetDefault("CHECKIN_TABLE", "CheckIns")
	viper.SetDefault("CHECKOUT_TABLE", "CheckOuts")
	viper.SetDefault("LEAVE_TABLE", "Leaves")
	viper.SetDefault("USER_TABLE", "Users")
	viper.SetDefault("HOLIDAY_TABLE", "Holidays")
	viper.SetDefault("WEEKLY_OFF_TABLE", "WeeklyOff")
	viper.SetDefault("DAY_OFF_TABLE", "DayOffs")

	viper.SetDefault("GEOFENCE_MAX_KM", 0.5)
	viper.SetDefault("HEADER_CACHE_TTL_SEC", 300)

	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ENDPOINT", "")
	viper.SetDefault("NOTIFY_SQS_QUEUE_URL", "http://localstack:4566/000000000000/notify-queue")
	viper.SetDefault("EMAIL_SENDER", "no-reply@fieldops.example.com")

	viper.SetDefault("OTLP_ENDPOINT", "jaeger:4317")

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}

// Validate checks the identifiers the tabular store cannot work without.
// A missing table or workbook identifier is a configuration error and must
// fail immediately rather than surface later as an empty report.
func (c Config) Validate() error {
	tables := map[string]string{
		"CHECKIN_TABLE":  c.CheckinTable,
		"CHECKOUT_TABLE": c.CheckoutTable,
		"LEAVE_TABLE":    c.LeaveTable,
		"USER_TABLE":     c.UserTable,
	}
	for key, val := range tables {
		if val == "" {
			return fmt.Errorf("missing required table identifier %s", key)
		}
	}

	if c.StoreBackend == "graph" {
		required := map[string]string{
			"GRAPH_TENANT_ID":     c.GraphTenantID,
			"GRAPH_CLIENT_ID":     c.GraphClientID,
			"GRAPH_CLIENT_SECRET": c.GraphClientSecret,
			"GRAPH_DRIVE_ID":      c.GraphDriveID,
			"GRAPH_WORKBOOK_ID":   c.GraphWorkbookID,
		}
		for key, val := range required {
			if val == "" {
				return fmt.Errorf("graph backend selected but %s is not set", key)
			}
		}
	}

	return nil
}

// Tables bundles the workbook table identifiers for injection into services.
type Tables struct {
	Checkins  string
	Checkouts string
	Leaves    string
	Users     string
	Holidays  string
	WeeklyOff string
	DayOffs   string
}

// TableNames extracts the table identifier bundle from the config.
func (c Config) TableNames() Tables {
	return Tables{
		Checkins:  c.CheckinTable,
		Checkouts: c.CheckoutTable,
		Leaves:    c.LeaveTable,
		Users:     c.UserTable,
		Holidays:  c.HolidayTable,
		WeeklyOff: c.WeeklyOffTable,
		DayOffs:   c.DayOffTable,
	}
}
