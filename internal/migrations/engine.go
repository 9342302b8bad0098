// Package migrations applies an ordered, linear chain of schema
// revisions to the relational store and, where a step requires it, to
// the recipe documents on disk. The currently applied revision is
// recorded in the schema_revisions table so re-running the engine is
// safe.
package migrations

import (
	"errors"
	"fmt"

	"github.com/brewstack/coffeecli/internal/documents"
	"github.com/brewstack/coffeecli/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// Migration is one forward/reverse transform in the chain. Parent names
// the revision this step applies on top of; the root step has an empty
// Parent. Downgrades are best-effort, not guaranteed inverses: the
// temperature downgrade, for example, loses the fixed-precision
// guarantee permanently.
type Migration struct {
	ID        string
	Parent    string
	Upgrade   func(tx *gorm.DB, docs *documents.Store) error
	Downgrade func(tx *gorm.DB, docs *documents.Store) error
}

// Engine walks the migration chain against one database and document
// store pair.
type Engine struct {
	db    *gorm.DB
	docs  *documents.Store
	chain []Migration
}

// NewEngine validates the registered chain (one root, each step linked
// to its predecessor, no duplicate ids) and returns an Engine over it.
func NewEngine(db *gorm.DB, docs *documents.Store) (*Engine, error) {
	chain := Chain()
	if len(chain) == 0 {
		return nil, errors.New("empty migration chain")
	}

	seen := make(map[string]bool, len(chain))
	parent := ""
	for _, m := range chain {
		if m.ID == "" {
			return nil, errors.New("migration with empty id")
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("duplicate migration id %s", m.ID)
		}
		if m.Parent != parent {
			return nil, fmt.Errorf("migration %s declares parent %q, expected %q", m.ID, m.Parent, parent)
		}
		seen[m.ID] = true
		parent = m.ID
	}

	return &Engine{db: db, docs: docs, chain: chain}, nil
}

// Head returns the id of the last revision in the chain.
func (e *Engine) Head() string {
	return e.chain[len(e.chain)-1].ID
}

// Current returns the recorded revision, or "" when no migration has
// been applied.
func (e *Engine) Current() (string, error) {
	var rev models.SchemaRevision
	if err := e.db.First(&rev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading current revision: %w", err)
	}
	return rev.Revision, nil
}

// indexOf maps a revision id to its chain position; "" (the base
// schema) maps to -1.
func (e *Engine) indexOf(rev string) (int, error) {
	if rev == "" {
		return -1, nil
	}
	for i, m := range e.chain {
		if m.ID == rev {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown revision %q", rev)
}

// UpgradeTo applies every step after the current revision up to and
// including target, in chain order. Applying the current revision again
// is a no-op. The chain halts on the first failing step, leaving the
// recorded revision at the last completed step.
func (e *Engine) UpgradeTo(target string) error {
	cur, err := e.Current()
	if err != nil {
		return err
	}
	curIdx, err := e.indexOf(cur)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrMigration, err)
	}
	tgtIdx, err := e.indexOf(target)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrMigration, err)
	}

	if tgtIdx < curIdx {
		return fmt.Errorf("%w: target %s is behind current %s, use DowngradeTo", models.ErrMigration, target, cur)
	}
	if tgtIdx == curIdx {
		log.WithField("revision", target).Info("Already at target revision, nothing to do")
		return nil
	}

	for i := curIdx + 1; i <= tgtIdx; i++ {
		m := e.chain[i]
		log.WithField("revision", m.ID).Info("Applying migration")
		err := e.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Upgrade(tx, e.docs); err != nil {
				return err
			}
			return setRevision(tx, m.ID)
		})
		if err != nil {
			return fmt.Errorf("%w: upgrade step %s: %v", models.ErrMigration, m.ID, err)
		}
	}
	return nil
}

// DowngradeTo reverses steps from the current revision back to target,
// newest first. Target "" reverts the whole chain to the base schema.
func (e *Engine) DowngradeTo(target string) error {
	cur, err := e.Current()
	if err != nil {
		return err
	}
	curIdx, err := e.indexOf(cur)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrMigration, err)
	}
	tgtIdx, err := e.indexOf(target)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrMigration, err)
	}

	if tgtIdx > curIdx {
		return fmt.Errorf("%w: target %s is ahead of current %s, use UpgradeTo", models.ErrMigration, target, cur)
	}
	if tgtIdx == curIdx {
		log.WithField("revision", target).Info("Already at target revision, nothing to do")
		return nil
	}

	for i := curIdx; i > tgtIdx; i-- {
		m := e.chain[i]
		log.WithField("revision", m.ID).Info("Reverting migration")
		err := e.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Downgrade(tx, e.docs); err != nil {
				return err
			}
			return setRevision(tx, m.Parent)
		})
		if err != nil {
			return fmt.Errorf("%w: downgrade step %s: %v", models.ErrMigration, m.ID, err)
		}
	}
	return nil
}

// setRevision records rev as the applied revision within tx. An empty
// rev clears the record, marking the base schema.
func setRevision(tx *gorm.DB, rev string) error {
	if rev == "" {
		return tx.Where("revision <> ''").Delete(&models.SchemaRevision{}).Error
	}

	var row models.SchemaRevision
	err := tx.First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.SchemaRevision{Revision: rev}).Error
	}
	if err != nil {
		return err
	}
	row.Revision = rev
	return tx.Save(&row).Error
}
