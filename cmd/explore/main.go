// Package main provides a headless explorer: it walks a seeded dungeon at
// random, then prints the minimap and generation statistics. Designers use
// it to tune weight tables and level scripts without a Telnet client.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/bootstrap"
	"github.com/cory-johannsen/dungeon/internal/config"
	"github.com/cory-johannsen/dungeon/internal/frontend/handlers"
	"github.com/cory-johannsen/dungeon/internal/game/combat"
	"github.com/cory-johannsen/dungeon/internal/game/dice"
	"github.com/cory-johannsen/dungeon/internal/game/dungeon"
	"github.com/cory-johannsen/dungeon/internal/game/session"
	"github.com/cory-johannsen/dungeon/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty uses defaults")
	seed := flag.Int64("seed", 1, "dungeon and walk seed")
	steps := flag.Int("steps", 2000, "number of moves to attempt")
	logLevel := flag.String("log-level", "warn", "log level for generation diagnostics")
	flag.Parse()

	var (
		cfg config.Config
		err error
	)
	if *configPath == "" {
		cfg, err = config.Defaults()
	} else {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	cfg.Logging.Level = *logLevel
	cfg.Logging.Format = "console"
	cfg.Dungeon.Seed = *seed

	logger, err := observability.NewLogger(cfg.Logging, observability.WithFields(zap.String("service", "explore")))
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	factory, closeContent, err := bootstrap.NewFactory(cfg.Dungeon, logger)
	if err != nil {
		log.Fatalf("loading dungeon content: %v", err)
	}
	defer closeContent()

	sess, err := factory.NewSession()
	if err != nil {
		log.Fatalf("creating session: %v", err)
	}

	st := walk(context.Background(), sess, dice.NewSeededSource(*seed), *steps)
	if err := report(sess, st); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type stats struct {
	moves, blocked, fights, wins, losses int
}

// walk moves in random directions, fighting only even-or-better odds.
func walk(ctx context.Context, sess *session.Session, src dice.Source, steps int) stats {
	var st stats
	for i := 0; i < steps && !sess.Over() && ctx.Err() == nil; i++ {
		if enemy, ok := sess.Pending(); ok {
			p := combat.WinProbability(sess.Player().Level, enemy.Level)
			res, fought, err := sess.ResolveCombat(p >= 0.5)
			if err != nil {
				break
			}
			if fought {
				st.fights++
				if res.Outcome == combat.Win {
					st.wins++
				} else {
					st.losses++
				}
			}
			continue
		}
		res, err := sess.Move(dungeon.AllDirections[src.Intn(len(dungeon.AllDirections))])
		if err != nil {
			break
		}
		st.moves++
		if res.Kind == session.Blocked {
			st.blocked++
		}
	}
	return st
}

// report prints the map and statistics and verifies door symmetry across
// every explored room.
func report(sess *session.Session, st stats) error {
	rooms := sess.Rooms()
	for _, line := range handlers.RenderMinimap(rooms, sess.Room().Coord) {
		fmt.Println(line)
	}

	doorHist := make(map[int]int)
	enemyHist := make(map[int]int)
	for _, r := range rooms {
		doorHist[r.Doors.Len()]++
		enemyHist[len(r.Enemies)]++
	}

	player := sess.Player()
	fmt.Println()
	fmt.Printf("rooms explored: %d\n", len(rooms))
	fmt.Printf("moves: %d (blocked %d)  fights: %d (won %d, lost %d)\n",
		st.moves, st.blocked, st.fights, st.wins, st.losses)
	fmt.Printf("player: level %d, health %d, defeated %t\n", player.Level, player.Health, player.Defeated())
	fmt.Printf("doors per room:   %s\n", histogram(doorHist))
	fmt.Printf("enemies per room: %s\n", histogram(enemyHist))

	var violations []string
	for _, r := range rooms {
		if err := sess.Store().CheckSymmetry(r); err != nil {
			violations = append(violations, err.Error())
		}
	}
	if len(violations) > 0 {
		return fmt.Errorf("door symmetry violated:\n%s", strings.Join(violations, "\n"))
	}
	fmt.Println("door symmetry: ok")
	return nil
}

func histogram(h map[int]int) string {
	keys := make([]int, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d:%d", k, h[k]))
	}
	return strings.Join(parts, " ")
}
