package store

// Schema setup is a fixed sequence of idempotent statements, safe to
// re-run on every start. Upgrades may add tables or columns; nothing is
// ever dropped or renamed here.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS study_logs (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id  INTEGER NOT NULL,
    guild_id INTEGER NOT NULL DEFAULT 0,
    minutes  INTEGER NOT NULL DEFAULT 0,
    topic    TEXT NOT NULL DEFAULT '',
    ts       INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_study_logs_user ON study_logs(user_id, ts);

CREATE TABLE IF NOT EXISTS streaks (
    user_id   INTEGER PRIMARY KEY,
    count     INTEGER NOT NULL DEFAULT 0,
    highest   INTEGER NOT NULL DEFAULT 0,
    last_date TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS leaderboard (
    guild_id INTEGER NOT NULL,
    user_id  INTEGER NOT NULL,
    minutes  INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (guild_id, user_id)
);

CREATE TABLE IF NOT EXISTS doubts (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    guild_id INTEGER NOT NULL,
    user_id  INTEGER NOT NULL,
    question TEXT NOT NULL,
    ts       INTEGER NOT NULL,
    resolved INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_doubts_guild ON doubts(guild_id, resolved);

CREATE TABLE IF NOT EXISTS doubt_threads (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    doubt_id   INTEGER NOT NULL REFERENCES doubts(id),
    guild_id   INTEGER NOT NULL,
    channel_id INTEGER NOT NULL,
    thread_id  INTEGER NOT NULL,
    created_ts INTEGER NOT NULL,
    claimed_by INTEGER NOT NULL DEFAULT 0,
    closed     INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_doubt_threads_thread ON doubt_threads(thread_id);

CREATE TABLE IF NOT EXISTS reminders (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL,
    guild_id   INTEGER NOT NULL DEFAULT 0,
    channel_id INTEGER NOT NULL DEFAULT 0,
    message    TEXT NOT NULL,
    remind_at  INTEGER NOT NULL,
    sent       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_reminders_due ON reminders(sent, remind_at);

CREATE TABLE IF NOT EXISTS progress (
    user_id  INTEGER NOT NULL,
    guild_id INTEGER NOT NULL DEFAULT 0,
    subject  TEXT NOT NULL,
    percent  INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, guild_id, subject)
);

CREATE TABLE IF NOT EXISTS activity_messages (
    guild_id   INTEGER NOT NULL,
    user_id    INTEGER NOT NULL,
    week_start INTEGER NOT NULL,
    messages   INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (guild_id, user_id, week_start)
);

CREATE TABLE IF NOT EXISTS activity_voice (
    guild_id   INTEGER NOT NULL,
    user_id    INTEGER NOT NULL,
    week_start INTEGER NOT NULL,
    seconds    INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (guild_id, user_id, week_start)
);

CREATE TABLE IF NOT EXISTS activity_config (
    guild_id            INTEGER PRIMARY KEY,
    role_id             INTEGER NOT NULL DEFAULT 0,
    channel_ids         TEXT NOT NULL DEFAULT '[]',
    reset_weekday       INTEGER NOT NULL DEFAULT 0,
    reset_hour          INTEGER NOT NULL DEFAULT 0,
    last_processed_week INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS quizzes (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    guild_id   INTEGER NOT NULL DEFAULT 0,
    title      TEXT NOT NULL,
    config     TEXT NOT NULL DEFAULT '{}',
    created_ts INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_questions (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    quiz_id INTEGER NOT NULL REFERENCES quizzes(id),
    payload TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_quiz_questions_quiz ON quiz_questions(quiz_id);

CREATE TABLE IF NOT EXISTS quiz_sessions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    quiz_id     INTEGER NOT NULL REFERENCES quizzes(id),
    user_id     INTEGER NOT NULL,
    state       TEXT NOT NULL DEFAULT 'running',
    score       REAL NOT NULL DEFAULT 0,
    started_ts  INTEGER NOT NULL,
    finished_ts INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_quiz_sessions_user ON quiz_sessions(user_id, quiz_id);

CREATE TABLE IF NOT EXISTS quiz_responses (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id  INTEGER NOT NULL REFERENCES quiz_sessions(id),
    question_id INTEGER NOT NULL,
    answer      TEXT NOT NULL DEFAULT '',
    correct     INTEGER NOT NULL DEFAULT 0,
    ts          INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_quiz_responses_session ON quiz_responses(session_id);

CREATE TABLE IF NOT EXISTS wallets (
    guild_id INTEGER NOT NULL,
    user_id  INTEGER NOT NULL,
    balance  INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (guild_id, user_id)
);

CREATE TABLE IF NOT EXISTS inventory (
    guild_id INTEGER NOT NULL,
    user_id  INTEGER NOT NULL,
    item     TEXT NOT NULL,
    quantity INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (guild_id, user_id, item)
);

CREATE TABLE IF NOT EXISTS achievements (
    guild_id  INTEGER NOT NULL,
    user_id   INTEGER NOT NULL,
    name      TEXT NOT NULL,
    earned_ts INTEGER NOT NULL,
    PRIMARY KEY (guild_id, user_id, name)
);

CREATE TABLE IF NOT EXISTS todos (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    INTEGER NOT NULL,
    task       TEXT NOT NULL,
    due_ts     INTEGER NOT NULL DEFAULT 0,
    done       INTEGER NOT NULL DEFAULT 0,
    created_ts INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_todos_user ON todos(user_id, done);

CREATE TABLE IF NOT EXISTS archive (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    guild_id INTEGER NOT NULL DEFAULT 0,
    kind     TEXT NOT NULL,
    payload  TEXT NOT NULL DEFAULT '{}',
    ts       INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_archive_kind ON archive(kind, ts);
`
