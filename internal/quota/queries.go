package quota

const (
	queryGetProfile = `
		SELECT user_id, images_used_today, videos_used_today, last_reset_date::text
		FROM usage_profiles
		WHERE user_id = $1
	`

	queryUpsertProfile = `
		INSERT INTO usage_profiles (user_id, images_used_today, videos_used_today, last_reset_date)
		VALUES ($1, $2, $3, $4::date)
		ON CONFLICT (user_id)
		DO UPDATE SET
			images_used_today = EXCLUDED.images_used_today,
			videos_used_today = EXCLUDED.videos_used_today,
			last_reset_date = EXCLUDED.last_reset_date,
			updated_at = NOW()
		RETURNING user_id, images_used_today, videos_used_today, last_reset_date::text
	`

	// NULL parameters keep the current column value
	queryUpdateProfile = `
		UPDATE usage_profiles
		SET
			images_used_today = COALESCE($2::integer, images_used_today),
			videos_used_today = COALESCE($3::integer, videos_used_today),
			last_reset_date = COALESCE($4::date, last_reset_date),
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, images_used_today, videos_used_today, last_reset_date::text
	`
)
