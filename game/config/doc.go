// Package config provides server configuration for Gomoku Duel.
//
// The config package handles:
//   - Built-in defaults (15x15 board, five in a row, localhost:12345)
//   - Loading overrides from a YAML file
//   - Validation of every field, reporting all problems at once
//
// Configuration Format:
//
//	addr: localhost:12345
//	board:
//	  height: 15
//	  width: 15
//	  win_length: 5
//	relay:
//	  capacity: 100
//	  receive_timeout: 10m   # 0s waits forever
//	transport:
//	  write_wait: 10s
//	  pong_wait: 60s
//	  max_message_size: 512
//	  send_buffer: 256
//	log_level: info
//
// Keys missing from the file keep their defaults. Unknown keys are an error.
// Durations use Go syntax ("90s", "10m"); a bare integer is rejected.
//
// Precedence:
//
// Defaults are overridden by the YAML file, which is overridden by command
// line flags and environment variables that are explicitly set.
//
// Usage:
//
//	cfg, err := config.Load("gomoku.yaml")
//	if errors.Is(err, config.ErrInvalidConfig) {
//		log.Fatal().Err(err).Msg("bad configuration")
//	}
package config
