package analyze

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/asateer/skillscore/internal/detect"
	"github.com/asateer/skillscore/internal/skill"
	"github.com/asateer/skillscore/internal/video"
)

// Pipeline drives one sequential evaluation run: frames are decoded one at
// a time, every FrameSkip-th frame is passed through both detection models,
// and the resulting observation is fed to all three evaluators before the
// next frame is read.
type Pipeline struct {
	source  video.Source
	objects detect.ObjectDetector
	poses   detect.PoseDetector
	config  Config

	// onObservation, when set, receives every sampled-frame observation.
	// Used by the live feed; must not block for long.
	onObservation func(skill.Observation)
}

// NewPipeline creates a Pipeline over the given source and detectors.
// A FrameSkip below 1 falls back to the default stride.
func NewPipeline(source video.Source, objects detect.ObjectDetector, poses detect.PoseDetector, config Config) *Pipeline {
	if config.FrameSkip < 1 {
		config.FrameSkip = DefaultConfig().FrameSkip
	}
	return &Pipeline{
		source:  source,
		objects: objects,
		poses:   poses,
		config:  config,
	}
}

// SetObserver registers a callback invoked with every sampled-frame
// observation. Must be called before Run.
func (p *Pipeline) SetObserver(fn func(skill.Observation)) {
	p.onObservation = fn
}

// Run executes the pipeline to exhaustion of the frame stream and returns
// the aggregated result. Opening the source is the only fatal error;
// per-frame detection failures and observation gaps are logged and skipped.
// The source is closed unconditionally before Run returns.
func (p *Pipeline) Run() (*Result, error) {
	start := time.Now()

	if err := p.source.Open(); err != nil {
		return nil, err
	}
	defer p.source.Close()

	if fps := p.source.FPS(); fps > 0 {
		log.Printf("pipeline: source reports %.1f fps, sampling every %d frames", fps, p.config.FrameSkip)
	}

	jump := skill.NewJumpEvaluator(p.config.JumpDistanceThresh, p.config.JumpAngleThresh)
	running := skill.NewRunningEvaluator(p.config.RunMinBallDistance)
	passing := skill.NewPassingEvaluator(p.config.PassDistanceThresh)
	evaluators := []skill.Evaluator{jump, running, passing}

	frameIndex := 0
	for {
		mat, ok := p.source.Next()
		if !ok {
			break
		}

		if frameIndex%p.config.FrameSkip == 0 {
			obs := p.extract(frameIndex, mat)
			for _, e := range evaluators {
				e.Observe(obs)
			}
			if p.onObservation != nil {
				p.onObservation(obs)
			}
		}

		mat.Close()
		frameIndex++
	}

	return NewResult(jump.Score(), running.Score(), passing.Score(), time.Since(start)), nil
}

// extract runs both detection models on one sampled frame and converts
// their raw output into an observation. Model failures and empty results
// both yield nil observation fields.
func (p *Pipeline) extract(frameIndex int, mat *gocv.Mat) skill.Observation {
	obs := skill.Observation{FrameIndex: frameIndex}

	dets, err := p.objects.DetectObjects(mat)
	if err != nil {
		log.Printf("pipeline: object detection failed on frame %d: %v", frameIndex, err)
	} else if centroid, ok := detect.BallCentroid(dets); ok {
		obs.Ball = &centroid
	}

	skels, err := p.poses.DetectPose(mat)
	if err != nil {
		log.Printf("pipeline: pose detection failed on frame %d: %v", frameIndex, err)
	} else if pose, ok := detect.PrimarySkeleton(skels); ok {
		obs.Pose = pose
	}

	return obs
}
