package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/pixil98/go-cityquest/internal/game"
	"github.com/pixil98/go-cityquest/internal/session"
)

// Subject is the request/reply subject the chat adapter sends operations on.
const Subject = "cityquest.op"

// Subscriber is the subset of the messaging server the gateway needs.
type Subscriber interface {
	Subscribe(subject string, handler func(msg *nats.Msg)) (func(), error)
}

// Request is one structured operation from the chat adapter. Rendering,
// keyboards, and chat framing stay on the adapter side; only ops and
// structured results cross this seam.
type Request struct {
	Op     string          `json:"op"`
	Player int64           `json:"player"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// Response carries either the op result or a classified error kind.
type Response struct {
	OK    bool      `json:"ok"`
	Kind  game.Kind `json:"kind,omitempty"`
	Error string    `json:"error,omitempty"`
	Data  any       `json:"data,omitempty"`
}

// Gateway subscribes to the op subject and dispatches requests to the
// session API.
type Gateway struct {
	subscriber Subscriber
	api        session.API
}

func NewGateway(subscriber Subscriber, api session.API) *Gateway {
	return &Gateway{
		subscriber: subscriber,
		api:        api,
	}
}

// Start serves requests until the context is canceled.
func (g *Gateway) Start(ctx context.Context) error {
	unsub, err := g.subscriber.Subscribe(Subject, func(msg *nats.Msg) {
		g.handle(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", Subject, err)
	}
	defer unsub()

	<-ctx.Done()
	return nil
}

func (g *Gateway) handle(ctx context.Context, msg *nats.Msg) {
	var req Request
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		g.respond(ctx, msg, Response{OK: false, Kind: game.KindInternal, Error: "malformed request"})
		return
	}

	data, err := g.dispatch(ctx, &req)
	if err != nil {
		g.respond(ctx, msg, Response{OK: false, Kind: game.KindOf(err), Error: err.Error()})
		return
	}
	g.respond(ctx, msg, Response{OK: true, Data: data})
}

func (g *Gateway) respond(ctx context.Context, msg *nats.Msg, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.ErrorContext(ctx, "encoding gateway response", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		slog.WarnContext(ctx, "responding to gateway request", "op", msg.Subject, "error", err)
	}
}

type nicknameArgs struct {
	Nickname string `json:"nickname"`
}

type moveArgs struct {
	To string `json:"to"`
}

type subLocationArgs struct {
	Sub string `json:"sub"`
}

type transportArgs struct {
	Name string `json:"name"`
}

type refuelArgs struct {
	Amount float64 `json:"amount"`
}

type buyItemArgs struct {
	Shop string `json:"shop"`
	Item string `json:"item"`
}

func (g *Gateway) dispatch(ctx context.Context, req *Request) (any, error) {
	switch req.Op {
	case "register":
		var args nicknameArgs
		if err := parseArgs(req.Args, &args); err != nil {
			return nil, err
		}
		return g.api.Register(ctx, req.Player, args.Nickname)

	case "profile":
		return g.api.Profile(ctx, req.Player)

	case "resume":
		return nil, g.api.Resume(ctx, req.Player)

	case "destinations":
		return g.api.Destinations(ctx, req.Player)

	case "move":
		var args moveArgs
		if err := parseArgs(req.Args, &args); err != nil {
			return nil, err
		}
		return g.api.Move(ctx, req.Player, args.To)

	case "enter":
		var args subLocationArgs
		if err := parseArgs(req.Args, &args); err != nil {
			return nil, err
		}
		return nil, g.api.EnterSubLocation(ctx, req.Player, args.Sub)

	case "transports":
		return g.api.Transports(ctx, req.Player)

	case "select_transport":
		var args transportArgs
		if err := parseArgs(req.Args, &args); err != nil {
			return nil, err
		}
		return nil, g.api.SelectTransport(ctx, req.Player, args.Name)

	case "buy_transport":
		var args transportArgs
		if err := parseArgs(req.Args, &args); err != nil {
			return nil, err
		}
		return g.api.BuyTransport(ctx, req.Player, args.Name)

	case "refuel":
		var args refuelArgs
		if err := parseArgs(req.Args, &args); err != nil {
			return nil, err
		}
		return g.api.Refuel(ctx, req.Player, args.Amount)

	case "shops":
		return g.api.Shops(ctx, req.Player)

	case "buy_item":
		var args buyItemArgs
		if err := parseArgs(req.Args, &args); err != nil {
			return nil, err
		}
		return g.api.BuyItem(ctx, req.Player, args.Shop, args.Item)

	case "fight":
		return g.api.StartCombat(ctx, req.Player)

	case "attack":
		return g.api.Attack(ctx, req.Player)

	case "flee":
		return g.api.Flee(ctx, req.Player)

	case "explore":
		return g.api.Explore(ctx, req.Player)

	default:
		return nil, fmt.Errorf("unknown op %q", req.Op)
	}
}

func parseArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing args")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("parsing args: %w", err)
	}
	return nil
}
