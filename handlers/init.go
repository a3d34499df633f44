// handlers/init.go
package handlers

import (
	"net/http"

	"camops/calendar"
	"camops/inventory"
	"camops/store"
	ws "camops/websocket"
)

var (
	appStore store.Store
	inv      *inventory.Service
	cal      *calendar.Service // nil when the integration is disabled
	hub      *ws.Hub
)

func Init(st store.Store, svc *inventory.Service, c *calendar.Service, h *ws.Hub) {
	appStore = st
	inv = svc
	cal = c
	hub = h
}

func userName(r *http.Request) string {
	name, _ := r.Context().Value("userName").(string)
	return name
}

func userRole(r *http.Request) string {
	role, _ := r.Context().Value("userRole").(string)
	return role
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value("userID").(string)
	return id
}

// ServeWS hands the connection to the hub.
func ServeWS(w http.ResponseWriter, r *http.Request) {
	hub.ServeWS(w, r)
}
