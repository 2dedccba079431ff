package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/sportsequipment/shopclient/apiclient"
	"github.com/sportsequipment/shopclient/config"
	"github.com/sportsequipment/shopclient/lib/myevents"
	"github.com/sportsequipment/shopclient/lib/myhttpclient"
	"github.com/sportsequipment/shopclient/lib/mypublisher"
	"github.com/sportsequipment/shopclient/lib/mysession"
	"github.com/sportsequipment/shopclient/lib/mystore"
	"github.com/sportsequipment/shopclient/lib/mytime"
	"github.com/sportsequipment/shopclient/lib/myuuid"
	"github.com/sportsequipment/shopclient/services/auth"
	"github.com/sportsequipment/shopclient/services/auth/authevents"
	"github.com/sportsequipment/shopclient/services/cart"
	"github.com/sportsequipment/shopclient/services/cart/cartevents"
	cartstore "github.com/sportsequipment/shopclient/services/cart/store"
	"github.com/sportsequipment/shopclient/services/order"
	"github.com/sportsequipment/shopclient/services/product"
	"github.com/sportsequipment/shopclient/services/user"
)

func main() {
	c := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %s", err)
	}

	app, cleanup, err := newApp(c, cfg)
	if err != nil {
		log.Fatalf("Error wiring up client: %s", err)
	}
	defer cleanup()

	err = app.run(c, os.Args[1:])
	if err != nil {
		log.Fatalf("Error: %s", err)
	}
}

type app struct {
	authService    *auth.Service
	userService    *user.Service
	productService *product.Service
	cartService    *cart.Service
	orderService   *order.Service
	cartStore      *cartstore.CartStore
	redirector     *apiclient.LoggingRedirector
}

func newApp(c context.Context, cfg config.Config) (*app, func(), error) {
	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}
	publisher := mypublisher.New(nower, uuider)

	sessionStore, cleanup, err := mystore.New[string](c, "session")
	if err != nil {
		return nil, nil, fmt.Errorf("error creating session store: %s", err)
	}
	session := mysession.New(sessionStore)
	redirector := apiclient.NewLoggingRedirector()

	baseURL := apiclient.ResolveBaseURL(cfg.BaseURL, cfg.Environment, cfg.ProductionHost)
	client := apiclient.New(baseURL, myhttpclient.New(cfg.Timeout), session, redirector, publisher, uuider)

	cartStore := cartstore.New(publisher)

	publisher.Subscribe(authevents.TopicName, func(c context.Context, envelope myevents.EventEnvelope) {
		log.Printf("session event: %s %s", envelope.EventTypeName, envelope.EventPayload)
	})
	publisher.Subscribe(cartevents.TopicName, func(c context.Context, envelope myevents.EventEnvelope) {
		log.Printf("cart event: %s %s", envelope.EventTypeName, envelope.EventPayload)
	})

	return &app{
		authService:    auth.NewService(client, session, publisher, nower),
		userService:    user.NewService(client),
		productService: product.NewService(client),
		cartService:    cart.NewService(client, cartStore),
		orderService:   order.NewService(client),
		cartStore:      cartStore,
		redirector:     redirector,
	}, cleanup, nil
}

func (a *app) run(c context.Context, args []string) error {
	if len(args) == 0 {
		usage()

		return nil
	}

	var err error
	switch args[0] {
	case "auth":
		err = a.runAuth(c, args[1:])
	case "users":
		err = a.runUsers(c, args[1:])
	case "products":
		err = a.runProducts(c, args[1:])
	case "cart":
		err = a.runCart(c, args[1:])
	case "orders":
		err = a.runOrders(c, args[1:])
	default:
		usage()

		return fmt.Errorf("unknown command %q", args[0])
	}

	if target, pending := a.redirector.PendingRedirect(); pending {
		log.Printf("Next step: %s", target)
	}

	return err
}

func (a *app) runAuth(c context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: auth login|logout|register|register-admin|reset-password|whoami")
	}

	switch args[0] {
	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: auth login <username> <password>")
		}
		resp, err := a.authService.Login(c, auth.Credentials{Username: args[1], Password: args[2]})
		if err != nil {
			return err
		}

		return printJSON(resp)

	case "logout":
		return a.authService.Logout(c)

	case "register", "register-admin":
		if len(args) != 4 {
			return fmt.Errorf("usage: auth %s <username> <email> <password>", args[0])
		}
		registration := auth.RegistrationRequest{Username: args[1], Email: args[2], Password: args[3]}

		var resp auth.MessageResponse
		var err error
		if args[0] == "register" {
			resp, err = a.authService.Register(c, registration)
		} else {
			resp, err = a.authService.RegisterAdmin(c, registration)
		}
		if err != nil {
			return err
		}

		return printJSON(resp)

	case "reset-password":
		if len(args) != 2 {
			return fmt.Errorf("usage: auth reset-password <email>")
		}
		resp, err := a.authService.ResetPassword(c, args[1])
		if err != nil {
			return err
		}

		return printJSON(resp)

	case "whoami":
		if !a.authService.IsAuthenticated(c) {
			fmt.Println("not logged in")

			return nil
		}
		current, _ := a.authService.CurrentUser(c)

		return printJSON(current)
	}

	return fmt.Errorf("unknown auth command %q", args[0])
}

func (a *app) runUsers(c context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: users me|update|change-password|list|get|delete|role")
	}

	switch args[0] {
	case "me":
		me, err := a.userService.Me(c)
		if err != nil {
			return err
		}

		return printJSON(me)

	case "update":
		if len(args) != 4 {
			return fmt.Errorf("usage: users update <id> <username> <email>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		updated, err := a.userService.Update(c, id, user.UpdateRequest{Username: args[2], Email: args[3]})
		if err != nil {
			return err
		}

		return printJSON(updated)

	case "change-password":
		if len(args) != 3 {
			return fmt.Errorf("usage: users change-password <old> <new>")
		}

		return a.userService.ChangePassword(c, args[1], args[2])

	case "list":
		users, err := a.userService.List(c)
		if err != nil {
			return err
		}

		return printJSON(users)

	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: users get <id>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		found, err := a.userService.Get(c, id)
		if err != nil {
			return err
		}

		return printJSON(found)

	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: users delete <id>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}

		return a.userService.Delete(c, id)

	case "role":
		if len(args) != 3 {
			return fmt.Errorf("usage: users role <id> <role>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		updated, err := a.userService.ChangeRole(c, id, args[2])
		if err != nil {
			return err
		}

		return printJSON(updated)
	}

	return fmt.Errorf("unknown users command %q", args[0])
}

func (a *app) runProducts(c context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: products list|page|get|create|update|delete|upload-image|categories")
	}

	switch args[0] {
	case "list":
		products, err := a.productService.List(c)
		if err != nil {
			return err
		}

		return printJSON(products)

	case "page":
		if len(args) != 3 {
			return fmt.Errorf("usage: products page <page> <size>")
		}
		page, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid page %q: %s", args[1], err)
		}
		size, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid size %q: %s", args[2], err)
		}
		result, err := a.productService.ListPaged(c, page, size)
		if err != nil {
			return err
		}

		return printJSON(result)

	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: products get <id>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		found, err := a.productService.Get(c, id)
		if err != nil {
			return err
		}

		return printJSON(found)

	case "create":
		if len(args) != 2 {
			return fmt.Errorf("usage: products create <json-file>")
		}
		toCreate, err := readProduct(args[1])
		if err != nil {
			return err
		}
		created, err := a.productService.Create(c, toCreate)
		if err != nil {
			return err
		}

		return printJSON(created)

	case "update":
		if len(args) != 3 {
			return fmt.Errorf("usage: products update <id> <json-file>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		toUpdate, err := readProduct(args[2])
		if err != nil {
			return err
		}
		updated, err := a.productService.Update(c, id, toUpdate)
		if err != nil {
			return err
		}

		return printJSON(updated)

	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: products delete <id>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}

		return a.productService.Delete(c, id)

	case "upload-image":
		if len(args) != 2 {
			return fmt.Errorf("usage: products upload-image <file>")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("error reading %s: %s", args[1], err)
		}
		resp, err := a.productService.UploadImage(c, args[1], data)
		if err != nil {
			return err
		}

		return printJSON(resp)

	case "categories":
		categories, err := a.productService.Categories(c)
		if err != nil {
			return err
		}

		return printJSON(categories)
	}

	return fmt.Errorf("unknown products command %q", args[0])
}

func (a *app) runCart(c context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: cart show|add|update|remove|clear|count")
	}

	switch args[0] {
	case "show":
		current, err := a.cartService.GetCart(c)
		if err != nil {
			return err
		}
		err = printJSON(current)
		if err != nil {
			return err
		}
		fmt.Printf("%d items, total %s\n", a.cartStore.TotalItems(), a.cartStore.TotalPrice())

		return nil

	case "add":
		if len(args) != 3 {
			return fmt.Errorf("usage: cart add <productID> <quantity>")
		}
		productID, err := parseID(args[1])
		if err != nil {
			return err
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q: %s", args[2], err)
		}
		current, err := a.cartService.AddItem(c, productID, quantity)
		if err != nil {
			return err
		}

		return printJSON(current)

	case "update":
		if len(args) != 3 {
			return fmt.Errorf("usage: cart update <cartItemID> <quantity>")
		}
		itemID, err := parseID(args[1])
		if err != nil {
			return err
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q: %s", args[2], err)
		}
		current, err := a.cartService.UpdateItem(c, itemID, quantity)
		if err != nil {
			return err
		}

		return printJSON(current)

	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("usage: cart remove <cartItemID>")
		}
		itemID, err := parseID(args[1])
		if err != nil {
			return err
		}
		current, err := a.cartService.RemoveItem(c, itemID)
		if err != nil {
			return err
		}

		return printJSON(current)

	case "clear":
		return a.cartService.ClearCart(c)

	case "count":
		count, err := a.cartService.ItemCount(c)
		if err != nil {
			return err
		}
		fmt.Println(count)

		return nil
	}

	return fmt.Errorf("unknown cart command %q", args[0])
}

func (a *app) runOrders(c context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: orders create|list|get|all|status")
	}

	switch args[0] {
	case "create":
		if len(args) < 3 {
			return fmt.Errorf("usage: orders create <address> <phone> [paymentMethod]")
		}
		request := order.CreateOrderRequest{ShippingAddress: args[1], Phone: args[2]}
		if len(args) > 3 {
			request.PaymentMethod = args[3]
		}
		created, err := a.orderService.Create(c, request)
		if err != nil {
			return err
		}

		return printJSON(created)

	case "list":
		orders, err := a.orderService.ListMine(c)
		if err != nil {
			return err
		}

		return printJSON(orders)

	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: orders get <id>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		found, err := a.orderService.Get(c, id)
		if err != nil {
			return err
		}

		return printJSON(found)

	case "all":
		orders, err := a.orderService.ListAll(c)
		if err != nil {
			return err
		}

		return printJSON(orders)

	case "status":
		if len(args) != 3 {
			return fmt.Errorf("usage: orders status <id> <status>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		updated, err := a.orderService.UpdateStatus(c, id, args[2])
		if err != nil {
			return err
		}

		return printJSON(updated)
	}

	return fmt.Errorf("unknown orders command %q", args[0])
}

func readProduct(path string) (product.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return product.Product{}, fmt.Errorf("error reading %s: %s", path, err)
	}

	result := product.Product{}
	err = json.Unmarshal(data, &result)
	if err != nil {
		return product.Product{}, fmt.Errorf("error parsing %s: %s", path, err)
	}

	return result, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %s", raw, err)
	}

	return id, nil
}

func printJSON(value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	return nil
}

func usage() {
	fmt.Println(`usage: shopclient <command> <subcommand> [args]

commands:
  auth      login, logout, register, register-admin, reset-password, whoami
  users     me, update, change-password, list, get, delete, role
  products  list, page, get, create, update, delete, upload-image, categories
  cart      show, add, update, remove, clear, count
  orders    create, list, get, all, status`)
}
