/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package srv

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/murmurlab/go-murmur/pkg/config"
	"github.com/murmurlab/go-murmur/pkg/log"
)

type RecordRequest struct {
	Session string `json:"session"`
}

type ApiServer struct {
	*mux.Router
	addr    string
	service *Service
}

var upgrader = websocket.Upgrader{
	// control API is local, no origin policy
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewApiServer(cfg *config.Config, service *Service) *ApiServer {
	log.Info("Initializing API server with address: %s", cfg.ApiAddr())
	s := &ApiServer{
		addr:    cfg.ApiAddr(),
		service: service,
	}
	s.configureRouter()
	return s
}

// Run serves the control API until the context is cancelled.
func (s *ApiServer) Run(ctx context.Context) error {
	log.Debug("Starting API server: address: %s", s.addr)
	httpServer := &http.Server{
		Handler: handlers.RecoveryHandler()(s.Router),
		Addr:    s.addr,
	}
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return ctx.Err()
	}
	return err
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/record/start", s.handleRecordStart()).Methods("POST")
	subRouter.HandleFunc("/record/stop", s.handleRecordStop()).Methods("GET")
	subRouter.HandleFunc("/status", s.handleStatus()).Methods("GET")
	subRouter.HandleFunc("/live", s.handleLive()).Methods("GET")
}

func (s *ApiServer) handleRecordStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordReq := &RecordRequest{}
		err := json.NewDecoder(r.Body).Decode(recordReq)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Debug("Handling record start request: session: %s", recordReq.Session)

		err = s.service.StartRecording(recordReq.Session)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
	}
}

func (s *ApiServer) handleRecordStop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling record stop request")
		s.service.StopRecording()
	}
}

func (s *ApiServer) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling status request")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.service.Status())
	}
}

func (s *ApiServer) handleLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("Error while upgrading live feed connection: %s", err)
			return
		}
		s.service.feed.Subscribe(conn)
	}
}
