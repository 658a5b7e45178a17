package entitystore

// Config contains configuration for the DynamoDB-backed store. Fields are
// populated from environment variables via github.com/caarlos0/env.
type Config struct {
	Table           string `env:"DYNAMODB_TABLE,required"`           // Table is the single-table name holding all entity rows.
	Region          string `env:"AWS_REGION" envDefault:"us-east-1"` // Region is the AWS region of the table.
	Endpoint        string `env:"DYNAMODB_ENDPOINT"`                 // Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`                 // AccessKeyID enables static credentials when set together with SecretAccessKey.
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`             // SecretAccessKey is the static secret key paired with AccessKeyID.
}
