// Package wire defines the frames exchanged with game clients.
//
// Server to client: every frame is a JSON Envelope
//
//	{"x":7,"y":7,"name":"","turn":0,"msg_type":"moving"}
//
// where msg_type is one of start, moving, win, fail, ok, error, draw or
// opponent_left. Client to server: the first frame is the raw display name,
// every later frame is a move "<row>,<col>" parsed by ParseMove.
package wire
