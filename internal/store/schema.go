package store

const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS bills (
    bill_pk INTEGER PRIMARY KEY AUTOINCREMENT,
    session TEXT NOT NULL,
    bill_id TEXT NOT NULL,
    number INTEGER NOT NULL DEFAULT 0,
    chamber TEXT NOT NULL,
    title TEXT NOT NULL,
    source_url TEXT,
    stored_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (session, bill_id)
);

CREATE INDEX IF NOT EXISTS idx_bills_session_chamber ON bills(session, chamber);

-- Actions in history order
CREATE TABLE IF NOT EXISTS actions (
    bill_pk INTEGER NOT NULL REFERENCES bills(bill_pk) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    date TEXT NOT NULL,
    actor TEXT NOT NULL,
    text TEXT NOT NULL,
    PRIMARY KEY (bill_pk, seq)
);

CREATE TABLE IF NOT EXISTS votes (
    bill_pk INTEGER NOT NULL REFERENCES bills(bill_pk) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    chamber TEXT NOT NULL,
    date TEXT NOT NULL,
    motion TEXT NOT NULL,
    passed BOOLEAN NOT NULL,
    yes_count INTEGER NOT NULL CHECK (yes_count >= 0),
    no_count INTEGER NOT NULL CHECK (no_count >= 0),
    other_count INTEGER NOT NULL DEFAULT 0 CHECK (other_count >= 0),
    PRIMARY KEY (bill_pk, seq)
);

CREATE TABLE IF NOT EXISTS sponsors (
    bill_pk INTEGER NOT NULL REFERENCES bills(bill_pk) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    name TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('primary', 'cosponsor')),
    PRIMARY KEY (bill_pk, seq)
);

CREATE TABLE IF NOT EXISTS documents (
    bill_pk INTEGER NOT NULL REFERENCES bills(bill_pk) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    label TEXT NOT NULL,
    link TEXT NOT NULL,
    PRIMARY KEY (bill_pk, seq)
);
`
