package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/gateway"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/handlers"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/middlewares"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/notifier"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/repository"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/service"
	"github.com/PragyeNawani/soloistanjali-sub000/pkg/config"
	"github.com/PragyeNawani/soloistanjali-sub000/pkg/db"
	"github.com/PragyeNawani/soloistanjali-sub000/pkg/mq"
	"github.com/PragyeNawani/soloistanjali-sub000/pkg/obs"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	_ = godotenv.Load()
	cfg := must(config.Load())

	shutdown := obs.InitTracer("lesson-api")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	gdb := db.Open(cfg.PGDSN)
	users := repository.NewUserRepo(gdb)
	workshops := repository.NewWorkshopRepo(gdb)
	registrations := repository.NewRegistrationRepo(gdb)
	courses := repository.NewCourseRepo(gdb)
	purchases := repository.NewPurchaseRepo(gdb)
	must(0, users.Migrate())
	must(0, workshops.Migrate())
	must(0, registrations.Migrate())
	must(0, courses.Migrate())
	must(0, purchases.Migrate())

	var pub service.EventPublisher
	if cfg.RabbitURL != "" {
		p := must(mq.NewPublisher(cfg.RabbitURL, cfg.EventExchange))
		defer p.Close()
		pub = p
	} else {
		log.Println("[api] RABBIT_URL empty, event publishing disabled")
	}

	var n notifier.Notifier
	if cfg.ResendAPIKey != "" {
		n = notifier.NewResend(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		log.Println("[api] RESEND_API_KEY empty, using console notifier")
		n = notifier.NewConsole()
	}

	gw := gateway.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	checkout := service.NewCheckoutSvc(service.CheckoutDeps{
		Workshops:     workshops,
		Registrations: registrations,
		Courses:       courses,
		Purchases:     purchases,
		Users:         users,
		Gateway:       gw,
		GatewaySecret: cfg.RazorpayKeySecret,
		Notifier:      n,
		Publisher:     pub,
	})
	workshopSvc := service.NewWorkshopSvc(workshops, registrations, users, n, pub)
	authSvc := service.NewAuthSvc(users, time.Duration(cfg.JWTExpireMin)*time.Minute)
	adminPolicy := middlewares.NewAdminPolicy(cfg.AdminEmails)

	r := gin.Default()

	ah := handlers.NewAuthHandler(authSvc)
	wh := handlers.NewWorkshopHandler(workshopSvc, checkout)
	ch := handlers.NewCourseHandler(courses, checkout)
	ck := handlers.NewCheckoutHandler(checkout)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", ah.Register)
		v1.POST("/auth/login", ah.Login)

		v1.GET("/workshops", wh.List)
		v1.GET("/workshops/:id", wh.Get)
		v1.GET("/courses", ch.List)
		v1.GET("/courses/:id", ch.Get)

		secured := v1.Group("")
		secured.Use(middlewares.JWTAuth())
		{
			secured.POST("/checkout/start", ck.Start)
			secured.POST("/checkout/verify", ck.Verify)
			secured.POST("/checkout/failure", ck.Failure)
			secured.GET("/workshops/:id/attendance", wh.Attendance)
			secured.GET("/courses/:id/download", ch.Download)

			admin := secured.Group("")
			admin.Use(middlewares.RequireAdmin(adminPolicy))
			admin.POST("/workshops", wh.Create)
			admin.PUT("/workshops/:id", wh.Update)
			admin.POST("/courses", ch.Create)
			admin.PUT("/courses/:id", ch.Update)
		}
	}

	log.Println("[api] listening on", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
