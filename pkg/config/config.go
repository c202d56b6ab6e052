package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	PGDSN string `envconfig:"PG_DSN" required:"true"`
	// JWT
	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`
	// Razorpay
	RazorpayKeyID     string `envconfig:"RAZORPAY_KEY_ID" required:"true"`
	RazorpayKeySecret string `envconfig:"RAZORPAY_KEY_SECRET" required:"true"`
	// Resend (empty key falls back to the console notifier)
	ResendAPIKey string `envconfig:"RESEND_API_KEY"`
	EmailFrom    string `envconfig:"EMAIL_FROM" default:"Soloist Anjali <notify@soloistanjali.com>"`
	// Admins recognised in addition to the ADMIN role claim
	AdminEmails []string `envconfig:"ADMIN_EMAILS"`
	// RabbitMQ (empty URL disables event publishing)
	RabbitURL     string `envconfig:"RABBIT_URL"`
	EventExchange string `envconfig:"EVENT_EXCHANGE" default:"lesson.exchange"`
	NotifyQueue   string `envconfig:"NOTIFY_QUEUE" default:"lesson.notify.q"`
	// Network
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
