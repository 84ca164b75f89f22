package spooldir

import (
	"bytes"
	"encoding/gob"
	"io"
	"io/fs"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hpcloud/tail"
	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cast"

	"kairos"
	"kairos/properties"
	"kairos/record"
)

var (
	ScanProperty       = properties.NewRequiredProperty[string]("scan", "watch this directory for reading files")
	PatternProperty    = properties.NewProperty[string]("pattern", "regex pattern", ".*")
	ConcurrentProperty = properties.NewProperty[int]("concurrent", "files consumed concurrently", 1)
)

//source watches a spool directory for files of key,value,epochSeconds
//lines and replays them as readings. Consumed offsets are part of the
//component state, a restart resumes instead of re-emitting.
type source struct {
	ctx     kairos.Context
	scanDir string
	pattern *regexp.Regexp
	pool    *ants.PoolWithFunc

	emitNext kairos.EmitNext
	state    sync.Map
	mutex    sync.Mutex
}

func (s *source) Snapshot() ([]byte, error) {
	var buffer bytes.Buffer
	s.mutex.Lock()
	defer s.mutex.Unlock()
	snapshotMap := map[string]int64{}
	s.state.Range(func(key, value any) bool {
		snapshotMap[key.(string)] = value.(int64)
		return true
	})
	encoder := gob.NewEncoder(&buffer)
	if err := encoder.Encode(&snapshotMap); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func (s *source) Restore(snapshot []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	snapshotMap := map[string]int64{}
	decoder := gob.NewDecoder(bytes.NewReader(snapshot))
	if err := decoder.Decode(&snapshotMap); err != nil {
		return err
	}
	for key, value := range snapshotMap {
		s.state.Store(key, value)
	}
	return nil
}

func (s *source) Open(ctx kairos.Context) (err error) {
	s.ctx = ctx
	s.scanDir = ctx.Properties().GetString(ScanProperty.Name())

	s.pattern, err = regexp.Compile(ctx.Properties().GetString(PatternProperty.Name()))
	if err != nil {
		return err
	}

	s.pool, err = ants.NewPoolWithFunc(ctx.Properties().GetInt(ConcurrentProperty.Name()), func(arg interface{}) {
		s.consume(cast.ToString(arg))
	}, ants.WithLogger(s.ctx.Logger()))
	return err
}

func (s *source) Close() error {
	s.pool.Release()
	return nil
}

func (s *source) PropertyDef() kairos.PropertyDef {
	return kairos.PropertyDef{ScanProperty, PatternProperty, ConcurrentProperty}
}

func (s *source) Collect(emitNext kairos.EmitNext) error {
	s.emitNext = emitNext
	if err := filepath.Walk(s.scanDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && s.pattern.MatchString(path) {
			s.submitConsume(path)
		}
		return nil
	}); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err = watcher.Add(s.scanDir); err != nil {
		return err
	}
	for {
		select {
		case <-s.ctx.Done():
			return watcher.Close()
		case e := <-watcher.Events:
			if e.Op&fsnotify.Create == fsnotify.Create {
				s.ctx.Logger().Infof("scan to new file:%s.", e.Name)
				if s.pattern.MatchString(e.Name) {
					s.submitConsume(e.Name)
				}
			}
		case err = <-watcher.Errors:
			s.ctx.Logger().WithError(err).Warnf("watch file system failed.")
		}
	}
}

func (s *source) submitConsume(filePath string) {
	if err := s.pool.Invoke(filePath); err != nil {
		s.ctx.Logger().WithError(err).Errorf("submit %s consume task error, skip file.", filePath)
	}
}

func (s *source) consume(filePath string) {
	var offset int64 = 0
	if offsetI, ok := s.state.Load(filePath); ok {
		offset = offsetI.(int64)
	}
	tailFile, err := tail.TailFile(filePath, tail.Config{
		Location: &tail.SeekInfo{
			Offset: offset,
			Whence: io.SeekStart,
		},
		Logger: s.ctx.Logger()})
	if err != nil {
		s.ctx.Logger().WithError(err).Errorf("tail %s error, skip this file.", filePath)
		return
	}
	for {
		select {
		case line, ok := <-tailFile.Lines:
			if !ok {
				s.ctx.Logger().Debugf("consume %s done.", filePath)
				s.rememberOffset(tailFile, filePath)
				return
			}
			ptr, err := record.Parse(line.Text)
			if err != nil {
				s.ctx.Logger().WithError(err).Warnf("skip unparsable line in %s.", filePath)
				continue
			}
			s.emitNext(ptr)
		case <-s.ctx.Done():
			s.ctx.Logger().Info("ctx done, stopping tail and save position to state.")
			s.rememberOffset(tailFile, filePath)
			_ = tailFile.Stop()
			return
		}
	}
}

func (s *source) rememberOffset(tailFile *tail.Tail, filePath string) {
	if tell, err := tailFile.Tell(); err != nil {
		s.ctx.Logger().WithError(err).Error("can't tell file, state error.")
	} else {
		s.state.Store(filePath, tell)
	}
}

func New() kairos.Source {
	return &source{}
}
