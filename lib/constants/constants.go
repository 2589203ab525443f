package constants

// SSM Parameter Store paths. All runtime configuration lives under /dealflow.
const (
	ALLOWED_ORIGINS   = "/dealflow/ALLOWED_ORIGINS"
	DATABASE_ENDPOINT = "/dealflow/DATABASE_ENDPOINT"
	DATABASE_PORT     = "/dealflow/DATABASE_PORT"
	DATABASE_NAME     = "/dealflow/DATABASE_NAME"
	DATABASE_USERNAME = "/dealflow/DATABASE_USERNAME"
	DATABASE_PASSWORD = "/dealflow/DATABASE_PASSWORD"
	SSL_MODE          = "/dealflow/SSL_MODE"

	ADMIN_PASSWORD  = "/dealflow/ADMIN_PASSWORD"
	TOKEN_SECRET    = "/dealflow/TOKEN_SECRET"
	TOKEN_TTL_HOURS = "/dealflow/TOKEN_TTL_HOURS"

	SMTP_HOST         = "/dealflow/SMTP_HOST"
	SMTP_PORT         = "/dealflow/SMTP_PORT"
	SMTP_USERNAME     = "/dealflow/SMTP_USERNAME"
	SMTP_PASSWORD     = "/dealflow/SMTP_PASSWORD"
	SMTP_FROM_ADDRESS = "/dealflow/SMTP_FROM_ADDRESS"

	STAFF_NOTIFICATION_EMAIL = "/dealflow/STAFF_NOTIFICATION_EMAIL"
	TC_EMAIL                 = "/dealflow/TC_EMAIL"

	ZAPIER_DEAL_HOOK_URL        = "/dealflow/ZAPIER_DEAL_HOOK_URL"
	ZAPIER_JV_HOOK_URL          = "/dealflow/ZAPIER_JV_HOOK_URL"
	ZAPIER_DESCRIPTION_HOOK_URL = "/dealflow/ZAPIER_DESCRIPTION_HOOK_URL"

	GOOGLE_MAPS_API_KEY = "/dealflow/GOOGLE_MAPS_API_KEY"

	STORAGE_ENDPOINT        = "/dealflow/STORAGE_ENDPOINT"
	STORAGE_REGION          = "/dealflow/STORAGE_REGION"
	STORAGE_BUCKET          = "/dealflow/STORAGE_BUCKET"
	STORAGE_PUBLIC_BASE_URL = "/dealflow/STORAGE_PUBLIC_BASE_URL"

	DRIVER_NAME = "postgres"
)
