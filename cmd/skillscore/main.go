package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/asateer/skillscore/internal/analyze"
	"github.com/asateer/skillscore/internal/detect"
	"github.com/asateer/skillscore/internal/server"
	"github.com/asateer/skillscore/internal/skill"
	"github.com/asateer/skillscore/internal/store"
	"github.com/asateer/skillscore/internal/video"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	output := flag.String("output", "", "path to save the result as JSON")
	serve := flag.Bool("serve", false, "run the HTTP scoring service instead of a single analysis")
	flag.Usage = usage
	flag.Parse()

	loadConfig()

	pipelineConfig := analyze.Config{
		FrameSkip:          viper.GetInt("analysis.frame_skip"),
		JumpDistanceThresh: viper.GetFloat64("analysis.jump.distance_thresh"),
		JumpAngleThresh:    viper.GetFloat64("analysis.jump.angle_thresh"),
		RunMinBallDistance: viper.GetFloat64("analysis.running.min_ball_distance"),
		PassDistanceThresh: viper.GetFloat64("analysis.passing.ball_distance_thresh"),
	}

	detectorConfig := detect.Config{
		MinConfidence: viper.GetFloat64("detect.min_confidence"),
		ScriptPath:    viper.GetString("detect.script_path"),
	}

	detector, err := detect.NewYOLODetector(detectorConfig)
	if err != nil {
		log.Fatalf("Error: Could not initialize detector, got '%v'", err)
	}
	defer detector.Close()

	analyzeFn := func(path string, observer func(skill.Observation)) (*analyze.Result, error) {
		pipeline := analyze.NewPipeline(video.NewFileSource(path), detector, detector, pipelineConfig)
		if observer != nil {
			pipeline.SetObserver(observer)
		}
		return pipeline.Run()
	}

	if *serve {
		runServer(analyzeFn)
		return
	}

	videoPath := flag.Arg(0)
	if videoPath == "" {
		usage()
		os.Exit(2)
	}

	fmt.Printf("Processing video: %s\n", videoPath)

	result, err := analyzeFn(videoPath, nil)
	if err != nil {
		log.Fatalf("Error: Analysis failed, got '%v'", err)
	}

	fmt.Println("\nSkill Evaluation Results:")
	fmt.Printf("Jumping with Ball: %d/5\n", result.JumpScore)
	fmt.Printf("Running with Ball: %d/5\n", result.RunningScore)
	fmt.Printf("Passing: %d/5\n", result.PassingScore)
	fmt.Printf("Overall Score: %.1f/5\n", result.OverallScore)
	fmt.Printf("Processing Time: %.2f seconds\n", result.ProcessingTime)

	if *output != "" {
		if err := result.WriteFile(*output); err != nil {
			log.Fatalf("Error: Could not save result, got '%v'", err)
		}
		fmt.Printf("Result saved to %s\n", *output)
	}
}

// runServer starts the HTTP scoring service with a result store.
func runServer(analyzeFn func(string, func(skill.Observation)) (*analyze.Result, error)) {
	dataDir := viper.GetString("directory.data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Error: Could not create data directory '%s', got '%v'", dataDir, err)
	}

	st, err := store.New(filepath.Join(dataDir, "skillscore.db"))
	if err != nil {
		log.Fatalf("Error: Could not initialize store, got '%v'", err)
	}
	defer st.Close()

	srv := server.New(server.Config{
		Store:     st,
		Analyze:   analyzeFn,
		UploadDir: dataDir,
	})

	addr := ":" + viper.GetString("http.port")
	fmt.Printf("Starting server on %s\n", addr)
	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("Error: Got '%v'", err)
	}
}

// loadConfig reads config.yaml when present and fills in defaults otherwise.
func loadConfig() {
	defaults := analyze.DefaultConfig()

	viper.SetDefault("analysis.frame_skip", defaults.FrameSkip)
	viper.SetDefault("analysis.jump.distance_thresh", defaults.JumpDistanceThresh)
	viper.SetDefault("analysis.jump.angle_thresh", defaults.JumpAngleThresh)
	viper.SetDefault("analysis.running.min_ball_distance", defaults.RunMinBallDistance)
	viper.SetDefault("analysis.passing.ball_distance_thresh", defaults.PassDistanceThresh)
	viper.SetDefault("detect.min_confidence", detect.DefaultConfig().MinConfidence)
	viper.SetDefault("detect.script_path", "")
	viper.SetDefault("http.port", "8080")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("directory.data", filepath.Join(homeDir, ".skillscore"))
		viper.AddConfigPath(filepath.Join(homeDir, ".skillscore"))
	} else {
		viper.SetDefault("directory.data", ".skillscore")
	}

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatalf("Error: Could not read config file, got '%v'", err)
		}
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <video>\n\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "Scores soccer-skill execution (jumping, running and passing with the")
	fmt.Fprintln(os.Stderr, "ball) from a video and prints three 0-5 skill scores.")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}
