package repo

import "context"

const productsSchema = `--sql
create table if not exists products (
  id uuid primary key,
  name text not null,
  image_source text not null,
  fabric text not null,
  gender text not null,
  category text not null default '',
  narration_text text not null default '',
  narration_lang text not null default 'ko',
  colors jsonb not null default '[]'::jsonb,
  sizes jsonb not null default '[]'::jsonb,
  video_url text,
  audio_data_url text,
  media_status text not null default 'pending',
  failure_reason text not null default '',
  created_at timestamptz not null default now(),
  updated_at timestamptz not null default now(),
  deleted_at timestamptz
);
create index if not exists idx_products_deleted_at on products (deleted_at) where deleted_at is not null;
create index if not exists idx_products_created_at on products (created_at desc);
`

// EnsureSchema creates the products table when it does not exist yet.
// Artifact columns are the only nullable ones; NULL there means the
// pipeline has not produced that artifact.
func (r *ProductRepositoryPG) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, productsSchema)
	return err
}
