// Command storefront is a terminal front end for the storefront API.
// It renders store snapshots and dispatches operations; all resource
// state lives in the store slices, none here.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/session"
	"storefront/internal/store"
)

func main() {
	log.SetFlags(0)

	configPath := flag.String("config", "", "config file (default: $STOREFRONT_CONFIG or built-in defaults)")
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	var cache *session.Cache
	if cfg.SessionFile != "" {
		cache = session.New(cfg.SessionFile)
	} else if cache, err = session.Default(); err != nil {
		log.Fatal(err)
	}

	api, err := client.New(cfg.BaseURL, client.WithTimeout(cfg.Timeout()))
	if err != nil {
		log.Fatal(err)
	}
	st := store.New(api, cache, nil)

	ctx := context.Background()
	if err := run(ctx, st, flag.Arg(0), flag.Args()[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, st *store.Store, command string, args []string) error {
	switch command {
	case "login":
		return cmdLogin(ctx, st, args)
	case "logout":
		st.Auth.Logout(ctx)
		return stateErr(st.Auth.Snapshot().Err)
	case "whoami":
		return cmdWhoami(st)
	case "posts":
		return cmdPosts(ctx, st, args)
	case "post":
		return cmdPost(ctx, st, args)
	case "cart":
		return cmdCart(ctx, st)
	case "cart-add":
		return cmdCartAdd(ctx, st, args)
	case "cart-rm":
		return cmdCartRemove(ctx, st, args)
	case "cart-set":
		return cmdCartSet(ctx, st, args)
	case "checkout":
		return cmdCheckout(ctx, st, args)
	case "orders":
		return cmdOrders(ctx, st)
	case "order":
		return cmdOrder(ctx, st, args)
	case "cancel":
		return cmdCancel(ctx, st, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: storefront [-config file] <command> [flags]

commands:
  login -u <user> -p <password>   log in
  logout                          log out and forget the session
  whoami                          show the cached identity
  posts [-page N] [-search S] [-sort K]
  post -id N                      show one listing
  cart                            show the cart
  cart-add -post N [-qty N]       add a listing to the cart
  cart-rm -item N                 remove a cart line
  cart-set -item N -qty N         change a line quantity
  checkout -method M -address A -first F -last L -email E -phone P
  orders                          list past orders
  order -id N                     show one order
  cancel -id N                    cancel a pending order`)
}

// stateErr converts a slice error message into a command failure.
func stateErr(msg string) error {
	if msg == "" {
		return nil
	}
	return fmt.Errorf("%s", msg)
}

func cmdLogin(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("u", "", "username")
	pass := fs.String("p", "", "password")
	fs.Parse(args)

	st.Auth.Login(ctx, *user, *pass)
	snap := st.Auth.Snapshot()
	if snap.Err != "" {
		return stateErr(snap.Err)
	}
	fmt.Printf("Logged in as %s\n", snap.User.Username)
	return nil
}

func cmdWhoami(st *store.Store) error {
	snap := st.Auth.Snapshot()
	if snap.User == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s (%s %s, %s)\n", snap.User.Username, snap.User.FirstName, snap.User.LastName, snap.User.Email)
	return nil
}

func cmdPosts(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("posts", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	search := fs.String("search", "", "search text")
	sortKey := fs.String("sort", models.SortNewest, "sort key")
	fs.Parse(args)

	st.Posts.FetchPosts(ctx, models.PostQuery{Page: *page, Search: *search, Sort: *sortKey})
	snap := st.Posts.Snapshot()
	if snap.Err != "" {
		return stateErr(snap.Err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRICE\tSELLER\tCAPTION")
	for _, p := range snap.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Price, p.User.Username, p.Caption)
	}
	w.Flush()
	fmt.Printf("%d of %d listings\n", len(snap.Items), snap.TotalCount)
	return nil
}

func cmdPost(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	id := fs.Int("id", 0, "post id")
	fs.Parse(args)

	st.Posts.FetchPost(ctx, *id)
	snap := st.Posts.Snapshot()
	if snap.Err != "" {
		return stateErr(snap.Err)
	}
	p := snap.Selected
	fmt.Printf("#%d %s\n  price: %s\n  seller: %s\n  images: %d\n", p.ID, p.Caption, p.Price, p.User.Username, len(p.Images))
	return nil
}

func cmdCart(ctx context.Context, st *store.Store) error {
	st.Cart.FetchCart(ctx)
	snap := st.Cart.Snapshot()
	if snap.Err != "" {
		return stateErr(snap.Err)
	}
	printCart(snap.Cart)
	return nil
}

func cmdCartAdd(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("cart-add", flag.ExitOnError)
	post := fs.Int("post", 0, "post id")
	qty := fs.Int("qty", 1, "quantity")
	fs.Parse(args)

	st.Cart.AddToCart(ctx, *post, *qty)
	snap := st.Cart.Snapshot()
	if snap.Err != "" {
		return stateErr(snap.Err)
	}
	printCart(snap.Cart)
	return nil
}

func cmdCartRemove(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("cart-rm", flag.ExitOnError)
	item := fs.Int("item", 0, "cart item id")
	fs.Parse(args)

	st.Cart.RemoveFromCart(ctx, *item)
	snap := st.Cart.Snapshot()
	if snap.Err != "" {
		return stateErr(snap.Err)
	}
	printCart(snap.Cart)
	return nil
}

func cmdCartSet(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("cart-set", flag.ExitOnError)
	item := fs.Int("item", 0, "cart item id")
	qty := fs.Int("qty", 1, "quantity")
	fs.Parse(args)

	st.Cart.UpdateQuantity(ctx, *item, *qty)
	snap := st.Cart.Snapshot()
	if snap.Err != "" {
		return stateErr(snap.Err)
	}
	printCart(snap.Cart)
	return nil
}

func cmdCheckout(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	method := fs.String("method", string(models.PaymentBank), "payment method")
	address := fs.String("address", "", "shipping address")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "email")
	phone := fs.String("phone", "", "phone")
	fs.Parse(args)

	order, _ := st.Orders.Checkout(ctx, models.CheckoutRequest{
		PaymentMethod:   models.PaymentMethod(*method),
		ShippingAddress: *address,
		ContactInfo: models.ContactInfo{
			FirstName: *first,
			LastName:  *last,
			Email:     *email,
			Phone:     *phone,
		},
	})
	snap := st.Orders.Snapshot()
	if snap.Err != "" {
		return stateErr(snap.Err)
	}
	st.Cart.ClearLocal()
	fmt.Printf("Order #%d placed (%s), total %s\n", order.ID, order.Status, order.TotalAmount)
	return nil
}

func cmdOrders(ctx context.Context, st *store.Store) error {
	st.Orders.FetchOrders(ctx)
	snap := st.Orders.Snapshot()
	if snap.Err != "" {
		return stateErr(snap.Err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tPLACED")
	for _, o := range snap.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", o.ID, o.Status, o.TotalAmount, o.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	return nil
}

func cmdOrder(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	id := fs.Int("id", 0, "order id")
	fs.Parse(args)

	st.Orders.FetchOrder(ctx, *id)
	snap := st.Orders.Snapshot()
	if snap.Err != "" {
		return stateErr(snap.Err)
	}
	o := snap.Selected
	fmt.Printf("Order #%d  %s  total %s\n", o.ID, o.Status, o.TotalAmount)
	for _, item := range o.Items {
		caption := "(listing removed)"
		if item.Post != nil {
			caption = item.Post.Caption
		}
		fmt.Printf("  %dx %s @ %s\n", item.Quantity, caption, item.Price)
	}
	return nil
}

func cmdCancel(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	id := fs.Int("id", 0, "order id")
	fs.Parse(args)

	st.Orders.CancelOrder(ctx, *id)
	snap := st.Orders.Snapshot()
	if snap.Err != "" {
		return stateErr(snap.Err)
	}
	fmt.Printf("Order #%d cancelled\n", *id)
	return nil
}

func printCart(cart *models.Cart) {
	if cart == nil || len(cart.Items) == 0 {
		fmt.Println("Cart is empty")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tQTY\tPRICE\tSUBTOTAL\tCAPTION")
	for _, item := range cart.Items {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", item.ID, item.Quantity, item.Post.Price, item.Subtotal(), item.Post.Caption)
	}
	w.Flush()
	fmt.Printf("Total: %s\n", cart.TotalAmount)
}
