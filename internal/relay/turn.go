package relay

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/pion/turn/v2"
)

var ErrInvalidTurnCredentials = errors.New("invalid turn credentials")

type TurnAuth struct {
	// Credentials is a comma separated list of user=password pairs.
	Credentials string `toml:"credentials"`
}

type TurnConfig struct {
	Enabled bool     `toml:"enabled"`
	Realm   string   `toml:"realm"`
	Address string   `toml:"address"`
	Auth    TurnAuth `toml:"auth"`
	// PublicIP is the address advertised in relay candidates.
	PublicIP string `toml:"publicip"`
}

// InitTurnServer starts an embedded TURN server so clients behind
// restrictive NATs can relay media through the signaling host.
func InitTurnServer(conf TurnConfig) (*turn.Server, error) {
	keys, err := parseCredentials(conf.Realm, conf.Auth.Credentials)
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenPacket("udp4", conf.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen turn: %w", err)
	}

	relayIP := net.ParseIP(conf.PublicIP)
	if relayIP == nil {
		relayIP = net.ParseIP("127.0.0.1")
	}

	server, err := turn.NewServer(turn.ServerConfig{
		Realm: conf.Realm,
		AuthHandler: func(username, realm string, srcAddr net.Addr) ([]byte, bool) {
			key, ok := keys[username]
			if !ok {
				slog.Warn("turn auth rejected", slog.String("username", username), slog.String("src", srcAddr.String()))
			}
			return key, ok
		},
		PacketConnConfigs: []turn.PacketConnConfig{
			{
				PacketConn: conn,
				RelayAddressGenerator: &turn.RelayAddressGeneratorStatic{
					RelayAddress: relayIP,
					Address:      "0.0.0.0",
				},
			},
		},
	})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to start turn server: %w", err)
	}

	slog.Info("turn server started", slog.String("address", conf.Address), slog.String("realm", conf.Realm))

	return server, nil
}

func parseCredentials(realm, credentials string) (map[string][]byte, error) {
	keys := make(map[string][]byte)
	for pair := range strings.SplitSeq(credentials, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		user, password, ok := strings.Cut(pair, "=")
		if !ok || user == "" || password == "" {
			return nil, fmt.Errorf("%w: entry %s", ErrInvalidTurnCredentials, strconv.Quote(pair))
		}
		keys[user] = turn.GenerateAuthKey(user, realm, password)
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: none configured", ErrInvalidTurnCredentials)
	}

	return keys, nil
}
