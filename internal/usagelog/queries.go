package usagelog

const (
	queryInsertEvent = `
		INSERT INTO usage_events (id, user_id, action_type, created_at)
		VALUES ($1, $2, $3, $4)
	`

	queryDailyUsage = `
		SELECT
			to_char((created_at AT TIME ZONE 'UTC')::date, 'YYYY-MM-DD') AS day,
			action_type,
			COUNT(*)::integer
		FROM usage_events
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY day, action_type
		ORDER BY day DESC, action_type
	`
)
