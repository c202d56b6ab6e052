package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/events"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/notifier"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/worker"
)

type Cfg struct {
	RabbitURL     string `envconfig:"RABBIT_URL" required:"true"`
	EventExchange string `envconfig:"EVENT_EXCHANGE" default:"lesson.exchange"`
	NotifyQueue   string `envconfig:"NOTIFY_QUEUE" default:"lesson.notify.q"`
	AdminEmail    string `envconfig:"ADMIN_NOTIFY_EMAIL" default:"admin@soloistanjali.com"`
	ResendAPIKey  string `envconfig:"RESEND_API_KEY"`
	EmailFrom     string `envconfig:"EMAIL_FROM" default:"Soloist Anjali <notify@soloistanjali.com>"`
}

func main() {
	_ = godotenv.Load()
	var cfg Cfg
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal(err)
	}

	var n notifier.Notifier
	if cfg.ResendAPIKey != "" {
		n = notifier.NewResend(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		n = notifier.NewConsole()
	}

	c := worker.NewConsumer(worker.Config{
		RabbitURL:  cfg.RabbitURL,
		Exchange:   cfg.EventExchange,
		Queue:      cfg.NotifyQueue,
		AdminEmail: cfg.AdminEmail,
		Bindings: []string{
			events.RKRegistrationCompleted,
			events.RKPurchaseCompleted,
			events.RKWorkshopUpdated,
		},
	}, n)
	if err := c.Connect(); err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	log.Println("[notify-worker] consuming", cfg.NotifyQueue)
	if err := c.Run(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("[notify-worker] stopped")
}
