// Package catalog models the dump status index published by every mirror.
//
// The index is a JSON document of the form
//
//	{"wikis": {"<wiki>": {"version": "...", "jobs": {"<job>": {"status": "...",
//	  "updated": "...", "files": {"<file>": {"size": 1, "url": "...", "md5": "...", "sha1": "..."}}}}}}}
//
// Null wikis, jobs and files mean "absent" and are dropped when the index is parsed.
package catalog

import (
	"encoding/json"
	"iter"
	"regexp"
	"slices"

	"github.com/hashicorp/go-version"

	"github.com/glorpus-work/wikidump/pkg/errutils"
)

// File is a single downloadable dump file.
type File struct {
	Name string `json:"-"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
	MD5  string `json:"md5,omitempty"`
	SHA1 string `json:"sha1,omitempty"`
}

// Job groups the files produced by one dump job of a wiki.
type Job struct {
	Name    string           `json:"-"`
	Status  string           `json:"status"`
	Updated string           `json:"updated"`
	Files   map[string]*File `json:"files"`
}

// Wiki is one collection in the index.
type Wiki struct {
	Name    string          `json:"-"`
	Version string          `json:"version"`
	Jobs    map[string]*Job `json:"jobs"`
}

// FilePath addresses a file inside the index.
type FilePath struct {
	Wiki string
	Job  string
	File string
}

// Catalog is a parsed index.
type Catalog struct {
	wikis map[string]*Wiki
	raw   []byte
}

type document struct {
	Wikis map[string]*Wiki `json:"wikis"`
}

// Parse decodes an index document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errutils.Wrap(err, "parse dump index")
	}

	wikis := make(map[string]*Wiki, len(doc.Wikis))
	for wikiName, wiki := range doc.Wikis {
		if wiki == nil {
			continue
		}
		wiki.Name = wikiName
		for jobName, job := range wiki.Jobs {
			if job == nil {
				delete(wiki.Jobs, jobName)
				continue
			}
			job.Name = jobName
			for fileName, file := range job.Files {
				if file == nil {
					delete(job.Files, fileName)
					continue
				}
				file.Name = fileName
			}
		}
		wikis[wikiName] = wiki
	}

	return &Catalog{wikis: wikis, raw: slices.Clone(data)}, nil
}

// Raw returns a copy of the index document as it was parsed.
func (c *Catalog) Raw() []byte {
	return slices.Clone(c.raw)
}

// Wikis returns the names of every non-empty wiki in sorted order.
func (c *Catalog) Wikis() []string {
	return sortedKeys(c.wikis)
}

// Wiki looks up a wiki by exact name.
func (c *Catalog) Wiki(name string) (*Wiki, error) {
	w, ok := c.wikis[name]
	if !ok {
		return nil, errutils.ErrNotFoundWithName("wiki", name)
	}
	return w, nil
}

// Job looks up a job of a wiki by exact name.
func (c *Catalog) Job(wiki, job string) (*Job, error) {
	w, err := c.Wiki(wiki)
	if err != nil {
		return nil, err
	}
	return w.Job(job)
}

// File looks up a file by exact name.
func (c *Catalog) File(wiki, job, name string) (*File, error) {
	j, err := c.Job(wiki, job)
	if err != nil {
		return nil, err
	}
	return j.File(name)
}

// FileMatching returns the first file of a job whose name matches re.
func (c *Catalog) FileMatching(wiki, job string, re *regexp.Regexp) (*File, error) {
	j, err := c.Job(wiki, job)
	if err != nil {
		return nil, err
	}
	return j.FileMatching(re)
}

// Files iterates over the path of every file in the index, ordered by wiki, job and file name.
func (c *Catalog) Files() iter.Seq[FilePath] {
	return func(yield func(FilePath) bool) {
		for _, wikiName := range c.Wikis() {
			wiki := c.wikis[wikiName]
			for _, jobName := range wiki.JobNames() {
				for _, fileName := range wiki.Jobs[jobName].FileNames() {
					if !yield(FilePath{Wiki: wikiName, Job: jobName, File: fileName}) {
						return
					}
				}
			}
		}
	}
}

// WikisMatching returns the sorted names of wikis whose version satisfies constraint.
// Wikis with a missing or unparsable version never match.
func (c *Catalog) WikisMatching(constraint string) ([]string, error) {
	constraints, err := version.NewConstraint(constraint)
	if err != nil {
		return nil, errutils.Wrapf(err, "parse version constraint %q", constraint)
	}

	var names []string
	for _, name := range c.Wikis() {
		v, err := c.wikis[name].SemVersion()
		if err != nil {
			continue
		}
		if constraints.Check(v) {
			names = append(names, name)
		}
	}
	return names, nil
}

// SemVersion parses the wiki's MediaWiki version, e.g. "1.42.0-wmf.5".
func (w *Wiki) SemVersion() (*version.Version, error) {
	return version.NewVersion(w.Version)
}

// JobNames returns the wiki's job names in sorted order.
func (w *Wiki) JobNames() []string {
	return sortedKeys(w.Jobs)
}

// Job looks up a job by exact name.
func (w *Wiki) Job(name string) (*Job, error) {
	j, ok := w.Jobs[name]
	if !ok {
		return nil, errutils.ErrNotFoundWithName("job", w.Name+"/"+name)
	}
	return j, nil
}

// FileNames returns the job's file names in sorted order.
func (j *Job) FileNames() []string {
	return sortedKeys(j.Files)
}

// File looks up a file by exact name.
func (j *Job) File(name string) (*File, error) {
	f, ok := j.Files[name]
	if !ok {
		return nil, errutils.ErrNotFoundWithName("file", j.Name+"/"+name)
	}
	return f, nil
}

// FileMatching returns the first file, in name order, whose name contains a match for re.
func (j *Job) FileMatching(re *regexp.Regexp) (*File, error) {
	for _, name := range j.FileNames() {
		if re.MatchString(name) {
			return j.Files[name], nil
		}
	}
	return nil, errutils.ErrNotFoundWithName("file matching", j.Name+"/"+re.String())
}

// FilesMatching returns every file whose name contains a match for re, in name order.
func (j *Job) FilesMatching(re *regexp.Regexp) []*File {
	var files []*File
	for _, name := range j.FileNames() {
		if re.MatchString(name) {
			files = append(files, j.Files[name])
		}
	}
	return files
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
