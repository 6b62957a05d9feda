package model

import "time"

// Server is one chat server (guild) the bot is installed on. At most one
// server is the main server, which sees the union of every league and user
// across all servers instead of just its own assignments.
type Server struct {
	ID              int64
	Name            string
	ChannelID       int64 // channel the table is posted in
	TableMessageID  int64 // message currently holding the table, 0 if none
	StatusMessageID int64 // latest status announcement message, 0 if none
	IsMain          bool
	Created         time.Time
}
