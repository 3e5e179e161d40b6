// Package handlers connects Telnet clients to dungeon sessions: command
// dispatch and text rendering.
package handlers

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/frontend/telnet"
	"github.com/cory-johannsen/dungeon/internal/game/command"
	"github.com/cory-johannsen/dungeon/internal/game/session"
)

// SessionFactory creates the dungeon for a new connection.
type SessionFactory interface {
	NewSession() (*session.Session, error)
}

// GameHandler runs one independent dungeon per Telnet connection.
type GameHandler struct {
	factory  SessionFactory
	sessions *session.Manager
	registry *command.Registry
	logger   *zap.Logger
}

// NewGameHandler creates a GameHandler.
//
// Precondition: all arguments must be non-nil.
func NewGameHandler(factory SessionFactory, sessions *session.Manager, registry *command.Registry, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		factory:  factory,
		sessions: sessions,
		registry: registry,
		logger:   logger,
	}
}

// HandleSession implements telnet.SessionHandler.
//
// Postcondition: Returns nil when the player quits or is defeated, ctx.Err()
// on shutdown, or a wrapped connection error.
func (h *GameHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	sess, err := h.factory.NewSession()
	if err != nil {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "The dungeon could not be created. Please try again later."))
		return fmt.Errorf("creating session: %w", err)
	}
	if err := h.sessions.Add(sess); err != nil {
		return err
	}
	defer func() { _ = h.sessions.Remove(sess.ID()) }()

	logger := h.logger.With(
		zap.String("session", sess.ID()),
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)
	logger.Info("session started", zap.Int("active_sessions", h.sessions.Count()))

	g := &game{sess: sess, conn: conn, registry: h.registry, logger: logger}
	err = g.run(ctx)
	player := sess.Player()
	logger.Info("session finished",
		zap.Uint("level", player.Level),
		zap.Uint("health", player.Health),
		zap.Int("explored", sess.Explored()),
		zap.Error(err),
	)
	return err
}

// errQuit ends the command loop without error.
var errQuit = errors.New("quit")

// game is the per-connection command loop state.
type game struct {
	sess     *session.Session
	conn     *telnet.Conn
	registry *command.Registry
	logger   *zap.Logger
}

func (g *game) run(ctx context.Context) error {
	if err := g.frame([]string{telnet.Colorize(telnet.BrightYellow, "You descend into the dungeon. Type help for commands.")}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = g.conn.WriteLine(telnet.Colorize(telnet.Yellow, "The server is shutting down."))
			return ctx.Err()
		default:
		}

		line, err := g.conn.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading input: %w", err)
		}

		cmd, parsed, ok := g.registry.Lookup(line)
		if parsed.Command == "" {
			if err := g.prompt(); err != nil {
				return err
			}
			continue
		}
		if !ok {
			if err := g.reply(telnet.Colorf(telnet.Yellow, "Unknown command %q. Type help for a list.", parsed.Command)); err != nil {
				return err
			}
			continue
		}

		err = g.dispatch(cmd)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
		if g.sess.Over() {
			return g.gameOver()
		}
	}
}

// dispatch performs cmd and redraws.
func (g *game) dispatch(cmd *command.Command) error {
	switch cmd.Handler {
	case command.HandlerMove:
		return g.move(cmd)
	case command.HandlerFight:
		return g.fight(true)
	case command.HandlerFlee:
		return g.fight(false)
	case command.HandlerLook:
		return g.frame(nil)
	case command.HandlerMap:
		lines := append([]string{telnet.Colorize(telnet.BrightYellow, "Explored dungeon")},
			RenderMinimap(g.sess.Rooms(), g.sess.Room().Coord)...)
		lines = append(lines, telnet.Colorize(telnet.Dim, fmt.Sprintf("%c you are here  %c explored", GlyphCurrent, GlyphExplored)))
		if err := g.conn.WriteLines(lines); err != nil {
			return err
		}
		return g.prompt()
	case command.HandlerStatus:
		p := g.sess.Player()
		return g.reply(RenderStatus(p, g.sess.Room().Coord, g.sess.Explored()))
	case command.HandlerHelp:
		if err := g.conn.WriteLines(RenderHelp(g.registry)); err != nil {
			return err
		}
		return g.prompt()
	case command.HandlerQuit:
		p := g.sess.Player()
		_ = g.conn.WriteLine(fmt.Sprintf("You leave the dungeon at level %d after exploring %d rooms.", p.Level, g.sess.Explored()))
		return errQuit
	default:
		return g.reply(telnet.Colorf(telnet.Yellow, "%s is not available.", cmd.Name))
	}
}

func (g *game) move(cmd *command.Command) error {
	res, err := g.sess.Move(cmd.Direction)
	if err != nil {
		return fmt.Errorf("moving %s: %w", cmd.Direction, err)
	}

	var msgs []string
	if res.Cancelled {
		msgs = append(msgs, telnet.Colorize(telnet.Dim, "You back away from the fight."))
	}
	switch res.Kind {
	case session.Blocked:
		msgs = append(msgs, telnet.Colorize(telnet.Dim, "A wall blocks your way."))
	case session.RoomChanged:
		if res.Generated {
			msgs = append(msgs, telnet.Colorize(telnet.Cyan, "You step into an unexplored room."))
		} else {
			msgs = append(msgs, telnet.Colorize(telnet.Cyan, "You return to a familiar room."))
		}
	case session.CombatTriggered:
		msgs = append(msgs, telnet.Colorf(telnet.BrightRed, "A level %d enemy blocks your path!", res.Enemy.Level))
	}
	return g.frame(msgs)
}

func (g *game) fight(accept bool) error {
	res, fought, err := g.sess.ResolveCombat(accept)
	if err != nil {
		return fmt.Errorf("resolving combat: %w", err)
	}
	switch {
	case fought:
		return g.frame([]string{RenderCombatResult(res, g.sess.Player())})
	case accept:
		return g.reply(telnet.Colorize(telnet.Dim, "There is nothing to fight."))
	default:
		return g.frame([]string{telnet.Colorize(telnet.Dim, "You back away from the fight.")})
	}
}

// frame clears the screen and draws msgs, the room, the status line and any
// pending fight dialog, then the prompt.
func (g *game) frame(msgs []string) error {
	room := g.sess.Room()
	player := g.sess.Player()
	pending, hasPending := g.sess.Pending()

	lines := []string{telnet.ClearScreen}
	lines = append(lines, msgs...)
	highlight := &pending
	if !hasPending {
		highlight = nil
	}
	lines = append(lines, RenderRoom(g.sess.Layout(), room, player, highlight)...)
	lines = append(lines, RenderStatus(player, room.Coord, g.sess.Explored()))
	if hasPending {
		lines = append(lines, RenderFightDialog(pending, player.Level)...)
	}
	if err := g.conn.WriteLines(lines); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return g.prompt()
}

func (g *game) reply(line string) error {
	if err := g.conn.WriteLine(line); err != nil {
		return err
	}
	return g.prompt()
}

func (g *game) prompt() error {
	if _, ok := g.sess.Pending(); ok {
		return g.conn.WritePrompt(telnet.Colorize(telnet.BrightRed, "Fight? (Y/n)> "))
	}
	p := g.sess.Player()
	return g.conn.WritePrompt(telnet.Colorf(telnet.BrightWhite, "[L%d HP%d]> ", p.Level, p.Health))
}

func (g *game) gameOver() error {
	p := g.sess.Player()
	g.logger.Info("player defeated", zap.Uint("level", p.Level), zap.Int("explored", g.sess.Explored()))
	return g.conn.WriteLines([]string{
		telnet.Colorize(telnet.Bold+telnet.BrightRed, "GAME OVER"),
		fmt.Sprintf("You fell at level %d after exploring %d rooms.", p.Level, g.sess.Explored()),
	})
}
