// Package interactive provides the interactive command-line interface
// for hubclient.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/msghub/hubclient-go/pkg/envelope"
	"github.com/msghub/hubclient-go/pkg/session"
)

// commandTimeout bounds each command typed at the prompt.
const commandTimeout = 30 * time.Second

// Channel is the part of a channel the prompt drives.
type Channel interface {
	ID() string
	IsConnected() bool
	EnsureConnected(ctx context.Context) error
	SendMessage(ctx context.Context, msg *envelope.Message) error
	SendCommand(ctx context.Context, cmd *envelope.Command) error
	SendNotification(ctx context.Context, n *envelope.Notification) error
	Session() *session.Session
}

// Client handles interactive mode for hubclient.
type Client struct {
	rl  *readline.Instance
	out io.Writer
	ch  Channel
}

// New creates the prompt. Call Stdout for log output so it does not
// garble the input line.
func New() (*Client, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "hub> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Client{rl: rl, out: rl.Stdout()}, nil
}

// Stdout returns a writer that coordinates with the readline input.
func (c *Client) Stdout() io.Writer {
	return c.out
}

// Run reads commands until quit, EOF or ctx is done.
func (c *Client) Run(ctx context.Context, cancel context.CancelFunc, ch Channel) {
	defer c.rl.Close()
	c.ch = ch

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		if c.Execute(ctx, line) {
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line and reports whether it asked to quit.
func (c *Client) Execute(ctx context.Context, line string) (quit bool) {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	var err error
	switch cmd {
	case "help", "?":
		c.printHelp()
	case "send", "s":
		err = c.cmdSend(ctx, args)
	case "notify", "n":
		err = c.cmdNotify(ctx, args)
	case "command", "cmd", "c":
		err = c.cmdCommand(ctx, args)
	case "ping":
		err = c.cmdPing(ctx, args)
	case "status":
		c.cmdStatus()
	case "reconnect":
		err = c.ch.EnsureConnected(ctx)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
	return false
}

func (c *Client) printHelp() {
	fmt.Fprintln(c.out, `
Hub Client Commands:
  Messaging:
    send <node> <text...>         - Send a text message
    notify <node> <id> <event>    - Send a notification (accepted, received, consumed, ...)
    command <method> <uri> [node] - Send a command (default recipient: the hub)
    ping [node]                   - Ping the hub or a node

  Connection:
    status                        - Show channel and session state
    reconnect                     - Reconnect now if the channel is down

  General:
    help                          - Show this help
    quit                          - Exit

  Nodes are name@domain[/instance].`)
}

func (c *Client) cmdSend(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: send <node> <text...>")
	}
	to, err := envelope.ParseNode(args[0])
	if err != nil {
		return err
	}
	msg := envelope.NewTextMessage(to, strings.Join(args[1:], " "))
	msg.ID = envelope.NewID()
	if err := c.ch.SendMessage(ctx, msg); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Sent message %s to %s\n", msg.ID, to)
	return nil
}

func (c *Client) cmdNotify(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: notify <node> <id> <event>")
	}
	to, err := envelope.ParseNode(args[0])
	if err != nil {
		return err
	}
	return c.ch.SendNotification(ctx, &envelope.Notification{
		ID:    args[1],
		To:    to,
		Event: envelope.Event(strings.ToLower(args[2])),
	})
}

func (c *Client) cmdCommand(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: command <method> <uri> [node]")
	}
	method := envelope.CommandMethod(strings.ToLower(args[0]))
	if !method.IsValid() {
		return fmt.Errorf("unknown method %q", args[0])
	}
	cmd := &envelope.Command{Method: method, URI: args[1]}
	if len(args) > 2 {
		to, err := envelope.ParseNode(args[2])
		if err != nil {
			return err
		}
		cmd.To = to
	}
	if err := c.ch.SendCommand(ctx, cmd); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Sent command %s\n", cmd.ID)
	return nil
}

func (c *Client) cmdPing(ctx context.Context, args []string) error {
	node := ""
	if len(args) > 0 {
		node = args[0]
	}
	return c.cmdCommand(ctx, append([]string{"get", "/ping"}, nodeArgs(node)...))
}

func nodeArgs(node string) []string {
	if node == "" {
		return nil
	}
	return []string{node}
}

func (c *Client) cmdStatus() {
	out := c.out
	fmt.Fprintf(out, "Channel:   %s\n", c.ch.ID())
	fmt.Fprintf(out, "Connected: %v\n", c.ch.IsConnected())

	s := c.ch.Session()
	if s == nil {
		return
	}
	fmt.Fprintf(out, "Session:   %s (%s)\n", s.ID(), s.State())
	fmt.Fprintf(out, "Node:      %s\n", s.LocalNode())
	fmt.Fprintf(out, "Hub:       %s\n", s.RemoteNode())
}
