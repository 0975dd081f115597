// Command web runs the local stub storefront API. It serves the same
// contract the client talks to in production, backed by in-memory
// state seeded with sample data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/api/handlers"
	"storefront/internal/models"
	"storefront/internal/services"
)

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	seed := flag.Bool("seed", true, "seed sample users and listings")
	flag.Parse()

	accountService := services.NewAccountService()
	postService := services.NewPostService()
	cartService := services.NewCartService()
	orderService := services.NewOrderService()

	if *seed {
		seedSampleData(accountService, postService)
	}

	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(accountService, postService, cartService, orderService)

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Stub API listening on %s", *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown complete")
}

// seedSampleData registers two demo accounts and enough listings to
// exercise pagination.
func seedSampleData(accountService *services.AccountService, postService *services.PostService) {
	alice := accountService.Seed("alice", "password123", "alice@example.com", "Alice", "Nguyen")
	bob := accountService.Seed("bob", "password123", "bob@example.com", "Bob", "Marsh")

	captions := []string{
		"Vintage film camera", "Hand-thrown ceramic mug", "Mechanical keyboard",
		"Leather messenger bag", "Walnut desk organizer", "Linen throw blanket",
	}
	for i := 0; i < 57; i++ {
		owner := alice
		if i%3 == 0 {
			owner = bob
		}
		caption := fmt.Sprintf("%s #%d", captions[i%len(captions)], i+1)
		price := models.Money(float64(5+i%40) + 0.99)
		postService.Create(owner, caption, price, []string{fmt.Sprintf("photo_%d.jpg", i+1)})
	}

	log.Printf("Seeded 2 users (alice/bob, password123) and 57 listings")
}
