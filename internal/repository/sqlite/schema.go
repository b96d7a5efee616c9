package sqlite

// Amounts are stored as decimal text so they round-trip exactly.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
    id                   TEXT PRIMARY KEY,
    household_id         TEXT NOT NULL,
    month                TEXT NOT NULL,
    salary               TEXT NOT NULL,
    savings              TEXT NOT NULL,
    debt_budget          TEXT NOT NULL,
    expense_total        TEXT NOT NULL,
    snowball_months      INTEGER NOT NULL,
    snowball_interest    TEXT NOT NULL,
    snowball_paid_off    INTEGER NOT NULL,
    avalanche_months     INTEGER NOT NULL,
    avalanche_interest   TEXT NOT NULL,
    avalanche_paid_off   INTEGER NOT NULL,
    emergency_target     TEXT NOT NULL,
    current_savings      TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    seq                  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_household_month ON snapshots(household_id, month, seq);
`
