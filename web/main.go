package main

import (
	"flag"
	"log"
	"os"

	"github.com/Maksasj/nika/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	flag.Parse()

	webServer := server.NewServer(*port)

	log.Printf("nika progressive render server")
	log.Printf("Stream a render with http://localhost:%d/api/render?scene=default&moves=ww", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
