package main

import (
	"log"
	"os"

	"github.com/pkarpov/interviewbot/bot"
	"github.com/pkarpov/interviewbot/config"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("InterviewBot starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	b, err := bot.New(cfg)
	if err != nil {
		log.Fatalf("Bot setup failed: %v", err)
	}
	defer b.Close()

	b.Start()
}
