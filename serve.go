package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// listeningPort is the default port the HTTP front-end binds to.
const listeningPort = 1789

// pathResponse is the JSON body served by GET /path, per spec §6.
type pathResponse struct {
	StartPage  string   `json:"start_page"`
	EndPage    string   `json:"end_page"`
	Path       []string `json:"path"`
	PathLength int      `json:"path_length"`
}

// serve exposes the shortest-path query engine over HTTP: an external
// collaborator per spec §1, whose only contract that matters to the
// core is GET /path?startpage=<s>&endpage=<e>. The store is opened
// read-only, with a cache in front of it bounded to cacheSize bytes.
func serve(databasePath string, cacheSize int) error {
	store, err := openStoreReadOnly(databasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	cache, err := NewSearchCache(cacheSize)
	if err != nil {
		return err
	}

	router := httprouter.New()
	router.GET("/path", pathHandler(store, cache))

	log.Print("started listening on port ", listeningPort)
	return http.ListenAndServe(fmt.Sprintf(":%d", listeningPort), router)
}

func pathHandler(store *Store, cache *SearchCache) httprouter.Handle {
	return func(writer http.ResponseWriter, request *http.Request, _ httprouter.Params) {
		writer.Header().Set("Access-Control-Allow-Origin", "*")

		query := request.URL.Query()
		start := query.Get("startpage")
		end := query.Get("endpage")
		if start == "" || end == "" {
			http.Error(writer, "startpage and endpage are required", http.StatusBadRequest)
			return
		}

		search := Search{src: start, dst: end}
		if cached := cache.Fetch(search); cached != nil {
			writer.Header().Set("Content-Type", "application/json")
			writer.Write(cached)
			return
		}

		path, err := store.ShortestPath(start, end)
		if err != nil {
			log.Print("failed to find shortest path from ", start, " to ", end, ": ", err)
			http.Error(writer, "internal server error", http.StatusInternalServerError)
			return
		}

		body, err := json.Marshal(pathResponse{
			StartPage:  start,
			EndPage:    end,
			Path:       path,
			PathLength: len(path),
		})
		if err != nil {
			log.Print("failed to marshal path response: ", err)
			http.Error(writer, "internal server error", http.StatusInternalServerError)
			return
		}

		cache.Store(search, body)
		writer.Header().Set("Content-Type", "application/json")
		writer.Write(body)
	}
}
